package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiller-ui/tiller/internal/config"
	"github.com/tiller-ui/tiller/internal/errors"
)

func buildCmd() *cobra.Command {
	var (
		output  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the wasm bundle",
		Long: `Build the application for the browser.

This command:
  • Compiles the entry package with GOOS=js GOARCH=wasm
  • Copies wasm_exec.js from the active Go toolchain
  • Writes an index.html scaffold if the project has none

Examples:
  tiller build
  tiller build --output=dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Output = output
			}
			if err := runBuild(cfg, verbose); err != nil {
				return err
			}
			success("built %s", filepath.Join(cfg.Output, "app.wasm"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from tiller.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show compiler output")

	return cmd
}

// runBuild compiles the entry package to wasm and assembles the static
// scaffolding around it.
func runBuild(cfg *config.Config, verbose bool) error {
	if _, err := os.Stat(cfg.Entry); err != nil {
		return errors.New("E102").WithDetail("entry package %q not found", cfg.Entry)
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}

	out := filepath.Join(cfg.Output, "app.wasm")
	build := exec.Command("go", "build", "-o", out, cfg.Entry)
	build.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	if verbose {
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			return errors.Wrap("E201", err)
		}
	} else {
		if outp, err := build.CombinedOutput(); err != nil {
			return errors.Wrap("E201", err).WithDetail("%s", strings.TrimSpace(string(outp)))
		}
	}

	if err := copyWasmExec(cfg.Output); err != nil {
		return errors.Wrap("E201", err)
	}
	return writeIndexScaffold(cfg)
}

// copyWasmExec copies wasm_exec.js out of the active Go toolchain.
func copyWasmExec(output string) error {
	goroot, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return err
	}
	root := strings.TrimSpace(string(goroot))

	// The file moved between toolchain versions.
	candidates := []string{
		filepath.Join(root, "lib", "wasm", "wasm_exec.js"),
		filepath.Join(root, "misc", "wasm", "wasm_exec.js"),
	}
	for _, src := range candidates {
		data, err := os.ReadFile(src)
		if err == nil {
			return os.WriteFile(filepath.Join(output, "wasm_exec.js"), data, 0o644)
		}
	}
	return fmt.Errorf("wasm_exec.js not found under %s", root)
}

// writeIndexScaffold writes a minimal index.html when the project does not
// ship its own.
func writeIndexScaffold(cfg *config.Config) error {
	path := filepath.Join(cfg.Output, "index.html")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	name := cfg.Name
	if name == "" {
		name = "tiller app"
	}
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <script src="wasm_exec.js"></script>
</head>
<body>
  <div id="app"></div>
  <script>
    const go = new Go();
    WebAssembly.instantiateStreaming(fetch("app.wasm"), go.importObject)
      .then((result) => go.run(result.instance));
  </script>
</body>
</html>
`, name)
	return os.WriteFile(path, []byte(page), 0o644)
}
