package test

import "embed"

// TestData holds the report documents shared by package tests.
//
//go:embed testdata
var TestData embed.FS
