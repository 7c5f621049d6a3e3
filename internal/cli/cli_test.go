package cli

import "testing"

func TestParseArgs_Defaults(t *testing.T) {
	args, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs error: %v", err)
	}
	if args.ConfigPath != "" || args.ListenAddr != "" || args.APIBase != "" {
		t.Errorf("expected empty overrides, got %+v", args)
	}
}

func TestParseArgs_Overrides(t *testing.T) {
	in := []string{"-config", "paydash.yaml", "-addr", ":9000", "-api-url", "http://svc/api/payments", "-log-level", "debug"}
	args, err := ParseArgs(in)
	if err != nil {
		t.Fatalf("ParseArgs error: %v", err)
	}
	if args.ConfigPath != "paydash.yaml" || args.ListenAddr != ":9000" ||
		args.APIBase != "http://svc/api/payments" || args.LogLevel != "debug" {
		t.Errorf("unexpected args %+v", args)
	}
	if len(args.RawArgs) != len(in) {
		t.Errorf("RawArgs not kept")
	}
}

func TestParseArgs_Errors(t *testing.T) {
	if _, err := ParseArgs([]string{"-nope"}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := ParseArgs([]string{"stray"}); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestParseDemoArgs(t *testing.T) {
	args, err := ParseDemoArgs(nil)
	if err != nil {
		t.Fatalf("ParseDemoArgs error: %v", err)
	}
	if args.ListenAddr != ":8089" || args.Seed != 40 || args.DBPath != "" {
		t.Errorf("unexpected defaults %+v", args)
	}
	if _, err := ParseDemoArgs([]string{"-seed", "-1"}); err == nil {
		t.Error("expected error for negative seed")
	}
}
