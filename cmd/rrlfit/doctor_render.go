package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"rrlfit/internal/preflight"
	"rrlfit/internal/store"
)

type checkLevel int

const (
	levelInfo checkLevel = iota
	levelPass
	levelWarn
	levelFail
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

const checkLabelWidth = 18

var levelTags = map[checkLevel]struct{ tag, color string }{
	levelInfo: {"INFO", ansiCyan},
	levelPass: {"OK", ansiGreen},
	levelWarn: {"WARN", ansiYellow},
	levelFail: {"FAIL", ansiRed},
}

// formatCheck renders one report line. Only the level tag is colored.
func formatCheck(label string, level checkLevel, detail string, colorize bool) string {
	style := levelTags[level]
	tag := "[" + style.tag + "]"
	if colorize {
		tag = style.color + tag + ansiReset
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, label, tag)
	if detail != "" {
		line += " " + detail
	}
	return line
}

// preflightLevel downgrades failures that only skip work to warnings.
func preflightLevel(r preflight.Result) checkLevel {
	switch {
	case r.Passed:
		return levelPass
	case r.Name == preflight.NameCatalogs, r.Name == preflight.NameOutputDir:
		return levelWarn
	default:
		return levelFail
	}
}

type doctorReport struct {
	lines    []string
	colorize bool
}

func renderDoctor(output doctorOutput, colorize bool) []string {
	r := &doctorReport{colorize: colorize}
	r.configuration(output)
	r.preflight(output.Checks)
	r.history(output.Database, output.DatabaseErr)
	return r.lines
}

func (r *doctorReport) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	heading := title
	if r.colorize {
		heading = ansiBold + title + ansiReset
	}
	r.lines = append(r.lines, heading, strings.Repeat("=", len(title)))
}

func (r *doctorReport) add(label string, level checkLevel, detail string) {
	r.lines = append(r.lines, formatCheck(label, level, detail, r.colorize))
}

func (r *doctorReport) configuration(output doctorOutput) {
	r.section("Configuration")
	if output.ConfigExists {
		r.add("Config file", levelPass, output.ConfigPath)
	} else {
		r.add("Config file", levelInfo, output.ConfigPath+" (not found, defaults in use)")
	}
	r.add("Band policy", levelInfo, output.Policy)
	r.add("Elements", levelInfo, strings.Join(output.Elements, ", "))
}

func (r *doctorReport) preflight(results []preflight.Result) {
	r.section("Paths")
	for _, res := range results {
		r.add(res.Name, preflightLevel(res), res.Detail)
	}
}

func (r *doctorReport) history(db *store.DatabaseHealth, dbErr string) {
	r.section("Run history")
	switch {
	case dbErr != "":
		r.add("Database", levelFail, dbErr)
	case db == nil:
		r.add("Database", levelInfo, "not opened")
	default:
		r.add("Database", levelPass, fmt.Sprintf("%s (schema v%d)", db.DBPath, db.SchemaVersion))
		r.add("Runs", levelInfo, fmt.Sprintf("%d runs, %d lines", db.Runs, db.Lines))
	}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
