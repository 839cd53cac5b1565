// Package web embeds the static assets served under /static/: the app
// stylesheet and the stylesheet shared by published portfolios and the
// editor canvas.
package web

import "embed"

//go:embed all:static
var StaticFS embed.FS
