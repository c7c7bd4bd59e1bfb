package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

func TestExecuteRequestPrintsStatusAndBody(t *testing.T) {
	var gotBody, gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotAuth = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query().Get("title")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.NewConfiguration(httpclient.ParseBaseAddress(srv.URL)))
	ctx := httpclient.NewContext(context.Background(), client)

	var out bytes.Buffer
	err := executeRequest(ctx, &out, http.MethodPost, "/items", requestFlags{
		headers: []string{"X-Api-Key: secret"},
		query:   []string{"title=go"},
		data:    `{"title": "go"}`,
	})
	if err != nil {
		t.Fatalf("executeRequest: %v", err)
	}
	if !strings.HasPrefix(out.String(), "201 Created\n") || !strings.Contains(out.String(), `{"id":7}`) {
		t.Fatalf("unexpected output %q", out.String())
	}
	if strings.TrimSpace(gotBody) != `{"title":"go"}` {
		t.Fatalf("server body = %q", gotBody)
	}
	if gotAuth != "secret" || gotQuery != "go" {
		t.Fatalf("header=%q query=%q", gotAuth, gotQuery)
	}
}

func TestExecuteRequestFailFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.NewConfiguration(httpclient.ParseBaseAddress(srv.URL)))
	ctx := httpclient.NewContext(context.Background(), client)

	if err := executeRequest(ctx, io.Discard, http.MethodGet, "/items", requestFlags{}); err != nil {
		t.Fatalf("without --fail a 500 must not error: %v", err)
	}
	err := executeRequest(ctx, io.Discard, http.MethodGet, "/items", requestFlags{fail: true})
	if !errors.Is(err, errHTTPStatus) {
		t.Fatalf("expected errHTTPStatus, got %v", err)
	}
}

func TestExecuteRequestValidatesInput(t *testing.T) {
	client := httpclient.New(httpclient.NewConfiguration(httpclient.ParseBaseAddress("http://localhost")))
	ctx := httpclient.NewContext(context.Background(), client)

	cases := []requestFlags{
		{headers: []string{"no-colon"}},
		{query: []string{"=value"}},
		{data: "{not json"},
	}
	for _, flags := range cases {
		if err := executeRequest(ctx, io.Discard, http.MethodPost, "/items", flags); err == nil {
			t.Fatalf("expected validation error for %#v", flags)
		}
	}

	if err := executeRequest(context.Background(), io.Discard, http.MethodGet, "/items", requestFlags{}); err == nil {
		t.Fatalf("expected error without client in context")
	}
}

func TestRootCommandRegistersVerbs(t *testing.T) {
	root := (&cli{}).rootCommand()
	for _, name := range []string{"get", "delete", "post", "put", "patch", "journal"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("missing %s command: %v", name, err)
		}
	}
	post, _, _ := root.Find([]string{"post"})
	if post.Flags().Lookup("data") == nil {
		t.Fatalf("post must accept --data")
	}
	get, _, _ := root.Find([]string{"get"})
	if get.Flags().Lookup("data") != nil {
		t.Fatalf("get must not accept --data")
	}
}
