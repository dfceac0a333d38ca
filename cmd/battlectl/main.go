// Package main provides a CLI client for the battle simulator's gRPC service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/gameserver"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; the grpc section selects the server")
	op := flag.String("op", "simulate", "operation: simulate, effectiveness, weaknesses, or report")
	creatureA := flag.String("a", "", "first creature (simulate)")
	creatureB := flag.String("b", "", "second creature (simulate)")
	attacking := flag.String("attacking", "", "attacking type (effectiveness)")
	defending := flag.String("defending", "", "defending type (effectiveness)")
	creature := flag.String("creature", "", "creature (weaknesses, report)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall request timeout")
	flag.Parse()

	method, fields, err := request(*op, *creatureA, *creatureB, *attacking, *defending, *creature)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := grpc.NewClient(cfg.GRPC.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("dialing %s: %v", cfg.GRPC.Addr(), err)
	}
	defer conn.Close()

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: gameserver.BattleServiceName})
	if err != nil {
		log.Fatalf("health check against %s: %v", cfg.GRPC.Addr(), err)
	}
	if hc.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		log.Fatalf("%s is %s", gameserver.BattleServiceName, hc.GetStatus())
	}

	out, err := gameserver.NewBattleServiceClient(conn).Call(ctx, method, fields)
	if err != nil {
		reportFailure(os.Stdout, os.Stderr, err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout, out)
	fmt.Fprintf(os.Stderr, "[%s]\n", time.Since(start))
}

// reportFailure prints the partial report a failed call carries, if any, to
// stdout and the status message and code to stderr.
func reportFailure(stdout, stderr io.Writer, err error) {
	if partial, ok := gameserver.PartialReport(err); ok {
		fmt.Fprintln(stdout, partial)
	}
	st := status.Convert(err)
	fmt.Fprintf(stderr, "%s [%s]\n", st.Message(), st.Code())
}

// request maps an operation name and its flags onto a BattleService call.
func request(op, a, b, attacking, defending, creature string) (string, map[string]any, error) {
	switch op {
	case "simulate":
		return "SimulateBattle", map[string]any{gameserver.FieldCreatureA: a, gameserver.FieldCreatureB: b}, nil
	case "effectiveness":
		return "GetTypeEffectiveness", map[string]any{gameserver.FieldAttacking: attacking, gameserver.FieldDefending: defending}, nil
	case "weaknesses":
		return "GetWeaknessesAndResistances", map[string]any{gameserver.FieldCreature: creature}, nil
	case "report":
		return "GetCreatureReport", map[string]any{gameserver.FieldCreature: creature}, nil
	default:
		return "", nil, fmt.Errorf("unknown operation %q", op)
	}
}
