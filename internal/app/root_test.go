package app

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "retailmetrics" {
		t.Errorf("expected Use to be 'retailmetrics', got '%s'", RootCmd.Use)
	}

	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expected := []string{"affinity", "households", "top-brand", "load", "brands", "retailers", "cache", "watch", "menu"}

	found := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected command '%s' to be registered", name)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "source", "db", "no-cache", "log-level"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}
