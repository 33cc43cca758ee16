package blogfront

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// blognav.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
