package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the CLI actor written by `quitplan login` to
// .quitplan/config.json.
type Workspace struct {
	ActorID string `json:"actor_id"`
	Role    string `json:"role"`              // "user", "coach" or "admin"
	PlanID  string `json:"plan_id,omitempty"` // current focus for plan-scoped commands

	// SessionID scopes the rating prompt to one login.
	SessionID string `json:"session_id,omitempty"`
}

// LoadWorkspace reads .quitplan/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
func LoadWorkspace(dir string) (*Workspace, error) {
	path := filepath.Join(dir, ".quitplan", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace config: %w", err)
	}

	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse workspace config: %w", err)
	}

	return &ws, nil
}

// SaveWorkspace writes config.json to directory
func SaveWorkspace(dir string, ws *Workspace) error {
	wsDir := filepath.Join(dir, ".quitplan")
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		return fmt.Errorf("failed to create .quitplan dir: %w", err)
	}

	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace config: %w", err)
	}

	path := filepath.Join(wsDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write workspace config: %w", err)
	}

	return nil
}
