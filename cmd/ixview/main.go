// Command ixview generates a single-file interactive viewer for a
// tagged financial report: the report's own markup with the extracted
// taxonomy data embedded as a JSON payload.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/finreport/ixview/core/report"
	"github.com/finreport/ixview/core/viewer"
	"github.com/finreport/ixview/internal/config"
	"github.com/finreport/ixview/internal/fileutil"
	"github.com/finreport/ixview/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for ixview.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Generate GenerateCmd `cmd:"" help:"Generate a viewer file for a report model"`
	Save     SaveCmd     `cmd:"" help:"Generate a viewer file, prompting for the save path"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// GenerateCmd generates a viewer file non-interactively.
type GenerateCmd struct {
	Model     string `arg:"" help:"Path to the report model snapshot" type:"existingfile"`
	Out       string `name:"save-viewer" short:"o" required:"" help:"Path of the viewer file to write" type:"path"`
	ScriptURL string `name:"script-url" default:"js/dist/ixbrlviewer.js" help:"Location of the external viewer script"`
}

func (c *GenerateCmd) Run() error {
	buildID := uuid.New().String()
	logging.Info("generating viewer", "build_id", buildID, "model", c.Model)

	model, err := report.Load(c.Model)
	if err != nil {
		logging.Error("no report model loaded", "path", c.Model, "error", err)
		return err
	}

	out, err := viewer.Generate(model, c.ScriptURL)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(c.Out, out, 0644); err != nil {
		return err
	}

	fmt.Printf("Created: %s\n", c.Out)
	fmt.Printf("  BLAKE3: %s\n", fileutil.Checksum(out))
	fmt.Printf("  Size: %d bytes\n", len(out))
	return nil
}

// SaveCmd generates a viewer file, prompting on stdin for the save
// path. The chosen directory is remembered for the next invocation.
type SaveCmd struct {
	Model     string `arg:"" help:"Path to the report model snapshot" type:"existingfile"`
	ScriptURL string `name:"script-url" default:"js/dist/ixbrlviewer.js" help:"Location of the external viewer script"`
}

func (c *SaveCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.Warn("could not load config, using defaults", "error", err)
		cfg = &config.Config{}
	}

	defaultDir := cfg.ViewerFileDir
	if defaultDir == "" {
		defaultDir = "."
	}
	defaultName := viewerFileName(c.Model)

	outPath, err := promptPath(os.Stdin, os.Stdout, defaultDir, defaultName)
	if err != nil {
		return err
	}

	model, err := report.Load(c.Model)
	if err != nil {
		logging.Error("no report model loaded", "path", c.Model, "error", err)
		return err
	}

	if err := viewer.SaveViewer(model, outPath, c.ScriptURL); err != nil {
		return err
	}

	cfg.ViewerFileDir = filepath.Dir(outPath)
	if err := cfg.Save(); err != nil {
		logging.Warn("could not persist config", "error", err)
	}

	fmt.Printf("Created: %s\n", outPath)
	return nil
}

// viewerFileName derives the default output file name from the model
// snapshot path.
func viewerFileName(modelPath string) string {
	base := strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	return base + "-viewer.html"
}

// promptPath asks for a save path and applies defaults: an empty answer
// becomes defaultName in defaultDir, a relative answer is resolved
// against defaultDir.
func promptPath(in io.Reader, out io.Writer, defaultDir, defaultName string) (string, error) {
	fmt.Fprintf(out, "Save viewer file [%s]: ", filepath.Join(defaultDir, defaultName))

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading save path: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return filepath.Join(defaultDir, defaultName), nil
	}
	if !filepath.IsAbs(answer) {
		return filepath.Join(defaultDir, answer), nil
	}
	return answer, nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("ixview %s\n", version)
	return nil
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseFormat(s string) logging.Format {
	if s == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ixview"),
		kong.Description("ixview - interactive viewer generator for tagged financial reports"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(parseLevel(CLI.LogLevel), parseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
