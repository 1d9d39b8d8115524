// Command duoc is the CLI driver for the source-to-source compiler:
// a thin spf13/cobra wrapper over package compile, not part of the
// pipeline's own public API. Grounded on cmd/root.go and cmd/query.go's
// own PersistentPreRun/flag-reading conventions.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/duallang/duoc/analytics"
	"github.com/duallang/duoc/bundle"
	"github.com/duallang/duoc/compile"
	"github.com/duallang/duoc/config"
	"github.com/duallang/duoc/diagnostics"
)

var rootCmd = &cobra.Command{
	Use:   "duoc module[:entry]",
	Short: "Translate a source module into bundled target-language output",
	Long:  "duoc compiles one module and everything it reaches into JavaScript, optionally generating Tailwind-style CSS and a SARIF diagnostics log.",
	Args:  cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		if os.Getenv("DUOC_DISABLE_METRICS") != "" {
			disableMetrics = true
		}
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage reporting")
	rootCmd.Flags().String("args", "", "JSON-encoded positional argument list; validated as JSON but not passed to the entry point")
	rootCmd.Flags().String("bundle-mode", "", "Bundler output mode: loader or native (overrides config default)")
	rootCmd.Flags().Bool("css", false, "Generate Tailwind-style CSS from harvested style classes")
	rootCmd.Flags().String("css-bin", "", "Tailwind-compatible binary to invoke for --css (overrides config default)")
	rootCmd.Flags().String("config", "", "Path to a duoc.yaml project config")
	rootCmd.Flags().String("sarif", "", "Write translation diagnostics as a SARIF 2.1.0 log to this path")
	rootCmd.Flags().StringP("out", "o", "", "Write bundled output to this path instead of stdout")
}

func run(cmd *cobra.Command, args []string) error {
	modArg := args[0]
	modulePath, entry := splitEntry(modArg)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := resolveBundleMode(cmd, cfg)
	if err != nil {
		return err
	}

	if rawArgs, _ := cmd.Flags().GetString("args"); rawArgs != "" {
		var decoded []any
		if err := json.Unmarshal([]byte(rawArgs), &decoded); err != nil {
			return fmt.Errorf("--args: invalid JSON: %w", err)
		}
	}

	session := compile.NewSession()
	result, compileErr := session.Compile(modulePath, entry, mode)

	if sarifPath, _ := cmd.Flags().GetString("sarif"); sarifPath != "" {
		var errs []*diagnostics.Error
		if compileErr != nil {
			if de, ok := compileErr.(*diagnostics.Error); ok {
				errs = append(errs, de)
			}
		}
		if werr := writeSARIF(sarifPath, errs); werr != nil {
			fmt.Fprintln(os.Stderr, color.RedString("writing SARIF log: %v", werr))
		}
	}

	if compileErr != nil {
		if de, ok := compileErr.(*diagnostics.Error); ok {
			diagnostics.Report(os.Stderr, []*diagnostics.Error{de})
		} else {
			fmt.Fprintln(os.Stderr, compileErr)
		}
		analytics.ReportEvent(analytics.ErrorProcessingModule)
		os.Exit(1)
	}

	if wantCSS, _ := cmd.Flags().GetBool("css"); wantCSS {
		cssBin, _ := cmd.Flags().GetString("css-bin")
		if cssBin == "" {
			cssBin = cfg.CSSBin
		}
		tw := bundle.TailwindCSS{Bin: cssBin}
		css, err := tw.GetCSS(result.StyleClasses)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("tailwind CSS generation failed: %v", err))
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, color.GreenString("generated %d bytes of CSS", len(css)))
	}

	out := writeBundle(cmd, result.Bundle)
	analytics.ReportEvent(eventFor(mode))
	return out
}

func eventFor(mode bundle.Mode) string {
	if mode == bundle.Native {
		return analytics.BundleCommand
	}
	return analytics.TranslateCommand
}

func writeBundle(cmd *cobra.Command, pkgs map[string]string) error {
	outPath, _ := cmd.Flags().GetString("out")
	for name, src := range pkgs {
		if outPath == "" {
			fmt.Printf("// --- %s ---\n%s\n", name, src)
			continue
		}
		path := outPath
		if len(pkgs) > 1 {
			path = outPath + "." + name + ".js"
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func writeSARIF(path string, errs []*diagnostics.Error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return diagnostics.WriteSARIF(f, errs)
}

func resolveBundleMode(cmd *cobra.Command, cfg *config.Config) (bundle.Mode, error) {
	modeFlag, _ := cmd.Flags().GetString("bundle-mode")
	if modeFlag == "" {
		modeFlag = cfg.BundleMode
	}
	switch modeFlag {
	case "", "loader":
		return bundle.Loader, nil
	case "native":
		return bundle.Native, nil
	default:
		return bundle.Loader, fmt.Errorf("--bundle-mode: must be \"loader\" or \"native\", got %q", modeFlag)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return &config.Config{BundleMode: "loader", CSSBin: "tailwindcss"}, nil
	}
	return config.Load(path)
}

// splitEntry splits a "module[:entry]" argument, defaulting entry to
// "main" exactly like analyze_module falling back to a module's own
// main function.
func splitEntry(arg string) (modulePath, entry string) {
	if idx := strings.LastIndex(arg, ":"); idx >= 0 {
		return arg[:idx], arg[idx+1:]
	}
	return arg, "main"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
