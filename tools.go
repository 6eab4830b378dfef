//go:build tools

// Package tools pins the versions of the development binaries: goose for
// migrations, swag for the API docs, mockery, golangci-lint and benchstat for
// comparing benchmarks/opening runs.
package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/pressly/goose/v3/cmd/goose"
	_ "github.com/swaggo/swag/cmd/swag"
	_ "github.com/vektra/mockery/v2"
	_ "golang.org/x/perf/cmd/benchstat"
)
