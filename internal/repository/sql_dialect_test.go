package repository

import (
	"strings"
	"testing"
)

func TestBuildSearchConditionSQLite(t *testing.T) {
	condition, argCount := buildSearchConditionByDialect("sqlite", []string{"name", "brand"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "name LIKE ? OR brand LIKE ?" {
		t.Fatalf("condition mismatch, got %s", condition)
	}
}

func TestBuildSearchConditionPostgres(t *testing.T) {
	condition, argCount := buildSearchConditionByDialect("postgres", []string{"name", "description", "brand"})
	if argCount != 3 {
		t.Fatalf("arg count want 3 got %d", argCount)
	}
	if !strings.Contains(condition, "name ILIKE ?") {
		t.Fatalf("postgres condition should use ILIKE, got %s", condition)
	}
}

func TestBuildSearchConditionSkipsBlankColumns(t *testing.T) {
	condition, argCount := buildSearchConditionByDialect("sqlite", []string{"name", " ", ""})
	if argCount != 1 {
		t.Fatalf("arg count want 1 got %d", argCount)
	}
	if condition != "name LIKE ?" {
		t.Fatalf("condition mismatch, got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
