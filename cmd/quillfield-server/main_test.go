package main

import (
	"flag"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFlags_EnvDefaults(t *testing.T) {
	env := map[string]string{
		"QUILLFIELD_ADDR":          ":9090",
		"QUILLFIELD_CONTENT_TYPES": "article.json, page.yaml",
		"QUILLFIELD_LOCALES":       "fr",
	}
	cfg, err := parseFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-addr", ":7070"}, func(key string) string { return env[key] })
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := serverConfig{
		addr:         ":7070",
		contentTypes: []string{"article.json", "page.yaml"},
		locales:      []string{"fr"},
		logLevel:     "info",
		cors:         true,
	}
	if diff := cmp.Diff(want, cfg, cmp.AllowUnexported(serverConfig{})); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	noEnv := func(string) string { return "" }
	if _, err := parseFlags(flag.NewFlagSet("test", flag.ContinueOnError), nil, noEnv); err == nil {
		t.Fatalf("missing content type should fail")
	}
	if _, err := parseFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-content-type", "a.json", "-watch"}, noEnv); err == nil {
		t.Fatalf("watch without settings should fail")
	}
}
