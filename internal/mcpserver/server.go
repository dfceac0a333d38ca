// Package mcpserver exposes the battle operations as Model Context Protocol
// tools and resources.
package mcpserver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/gameserver"
)

// Tool and resource names.
const (
	ToolSimulateBattle        = "simulate_battle"
	ToolTypeEffectiveness     = "get_type_effectiveness"
	ToolWeaknessesResistances = "get_pokemon_weaknesses_and_resistances"
	ResourcePokemon           = "pokemon"
	pokemonURIPrefix          = "pokemon://"
)

// SimulateBattleInput is the argument object of simulate_battle.
type SimulateBattleInput struct {
	Pokemon1Name string `json:"pokemon1_name" jsonschema:"the name of the first Pokémon"`
	Pokemon2Name string `json:"pokemon2_name" jsonschema:"the name of the second Pokémon"`
}

// TypeEffectivenessInput is the argument object of get_type_effectiveness.
type TypeEffectivenessInput struct {
	AttackingType string `json:"attacking_type" jsonschema:"the type of the attacking move, e.g. fire"`
	DefendingType string `json:"defending_type" jsonschema:"the type of the defending Pokémon, e.g. grass"`
}

// WeaknessesInput is the argument object of get_pokemon_weaknesses_and_resistances.
type WeaknessesInput struct {
	PokemonName string `json:"pokemon_name" jsonschema:"the name of the Pokémon to analyze"`
}

// ReportOutput is the structured result of every tool.
type ReportOutput struct {
	Report string `json:"report"`
}

// Server wraps an MCP server bound to a gameserver.Service.
type Server struct {
	mcp    *mcp.Server
	svc    *gameserver.Service
	logger *zap.Logger
}

// New builds a Server and registers its tools and resource template.
//
// Precondition: svc and logger must be non-nil.
func New(cfg config.MCPConfig, svc *gameserver.Service, logger *zap.Logger) *Server {
	s := &Server{
		mcp:    mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil),
		svc:    svc,
		logger: logger,
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolSimulateBattle,
		Description: "Simulates a Pokémon battle between two specified Pokémon and returns the turn-by-turn log.",
	}, s.simulateBattle)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolTypeEffectiveness,
		Description: "Gets the type effectiveness multiplier when one type attacks another.",
	}, s.typeEffectiveness)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolWeaknessesResistances,
		Description: "Gets a breakdown of a Pokémon's weaknesses, resistances, and immunities based on its types.",
	}, s.weaknesses)
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        ResourcePokemon,
		Title:       "Pokémon report",
		Description: "Comprehensive data for a given Pokémon. URI format: pokemon://{pokemon_name}",
		MIMEType:    "text/plain",
		URITemplate: pokemonURIPrefix + "{pokemon_name}",
	}, s.readPokemon)
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Run serves t until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("mcp server running")
	if err := s.mcp.Run(ctx, t); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running mcp server: %w", err)
	}
	return nil
}

func (s *Server) toolResult(tool, text string, err error) (*mcp.CallToolResult, ReportOutput, error) {
	if err != nil {
		s.logger.Info("tool failed", zap.String("tool", tool), zap.Error(err))
		msg := gameserver.UserMessage(err)
		if text != "" {
			msg = text + "\n\n" + msg
		}
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		}, ReportOutput{}, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, ReportOutput{Report: text}, nil
}

func (s *Server) simulateBattle(ctx context.Context, _ *mcp.CallToolRequest, in SimulateBattleInput) (*mcp.CallToolResult, ReportOutput, error) {
	text, err := s.svc.SimulateBattle(ctx, in.Pokemon1Name, in.Pokemon2Name)
	return s.toolResult(ToolSimulateBattle, text, err)
}

func (s *Server) typeEffectiveness(_ context.Context, _ *mcp.CallToolRequest, in TypeEffectivenessInput) (*mcp.CallToolResult, ReportOutput, error) {
	text, err := s.svc.TypeEffectiveness(in.AttackingType, in.DefendingType)
	return s.toolResult(ToolTypeEffectiveness, text, err)
}

func (s *Server) weaknesses(ctx context.Context, _ *mcp.CallToolRequest, in WeaknessesInput) (*mcp.CallToolResult, ReportOutput, error) {
	text, err := s.svc.WeaknessesAndResistances(ctx, in.PokemonName)
	return s.toolResult(ToolWeaknessesResistances, text, err)
}

// readPokemon serves pokemon://{pokemon_name}. Faults are rendered as the
// resource text so clients always receive a readable answer.
func (s *Server) readPokemon(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if req == nil || req.Params == nil {
		return nil, fmt.Errorf("resource URI is required; use %s{pokemon_name}", pokemonURIPrefix)
	}
	uri := req.Params.URI
	name, err := pokemonFromURI(uri)
	if err != nil {
		return nil, err
	}
	text, err := s.svc.CreatureReport(ctx, name)
	if err != nil {
		s.logger.Info("resource read failed", zap.String("uri", uri), zap.Error(err))
		text = gameserver.UserMessage(err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "text/plain", Text: text},
		},
	}, nil
}

// pokemonFromURI extracts the creature name from pokemon://{pokemon_name}.
func pokemonFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, pokemonURIPrefix)
	if !ok {
		return "", fmt.Errorf("unsupported resource URI %q", uri)
	}
	name, err := url.PathUnescape(strings.Trim(rest, "/"))
	if err != nil {
		return "", fmt.Errorf("parse pokemon name from %q: %w", uri, err)
	}
	return name, nil
}
