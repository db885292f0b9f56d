package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"node-resolve-go/resolver"
)

var (
	currentDir, _ = os.Getwd()
	rootCmd       = &cobra.Command{
		Use:   "node-resolve",
		Short: "Resolve Node.js module specifiers from the command line",
		Long: `Resolves module specifiers the way Node.js does: bare packages through
node_modules and package exports, "#" imports, self-references, relative
paths and URLs. Prints the resolved file and its module format.`,
		Version: Version,
	}
)

var docsCmd = &cobra.Command{
	Use:   "doc-gen",
	Short: "Generate CLI documentation",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := doc.GenMarkdownTree(rootCmd, "./docs")
		if err != nil {
			log.Fatal(err)
		}
		return nil
	},
}

// ---------------- resolve ----------------

var (
	resolveParent       string
	resolveConditions   []string
	resolveExternals    []string
	resolveWasmModules  bool
	resolveNoCache      bool
	resolveBestEffort   bool
	resolveCheckEngines string
	resolveJSONOutput   bool
	resolveConfigPath   string
)

type resolveResult struct {
	Specifier string `json:"specifier"`
	Path      string `json:"path"`
	Format    string `json:"format"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <specifier>...",
	Short: "Resolve one or more module specifiers",
	Long: `Resolves each specifier relative to the parent module and prints the
resolved path together with its module format. Specifiers matching an
--external glob are reported as external without touching the file system.`,
	Example: `node-resolve resolve lodash ./src/util.js --parent src/main.js
node-resolve resolve "#internal/db" --conditions development --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := LoadConfig(resolveConfigPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		conditions := config.Conditions
		if cmd.Flags().Changed("conditions") {
			conditions = resolveConditions
		}
		externals := config.Externals
		if cmd.Flags().Changed("external") {
			externals = resolveExternals
		}
		wasmModules := resolveWasmModules || config.ExperimentalWasmModules || nodeOptionsEnableWasm()
		bestEffort := resolveBestEffort || config.BestEffort

		matchers, err := CreateExternalMatchers(externals)
		if err != nil {
			return err
		}

		parent := resolveParent
		if parent == "" {
			parent = filepath.ToSlash(filepath.Join(currentDir, "index.js"))
		} else if !strings.Contains(parent, "://") && !filepath.IsAbs(parent) {
			parent = filepath.ToSlash(filepath.Join(currentDir, parent))
		}

		r := resolver.New(resolver.Options{
			Conditions:              conditions,
			DisableCache:            resolveNoCache,
			ExperimentalWasmModules: wasmModules,
		})

		results := make([]resolveResult, 0, len(args))
		for _, specifier := range args {
			if MatchesAnyExternal(specifier, matchers) {
				results = append(results, resolveResult{Specifier: specifier, Path: specifier, Format: "external"})
				continue
			}

			resolution, err := r.Resolve(specifier, parent)
			if err != nil {
				if bestEffort {
					logWarning(fmt.Sprintf("could not resolve '%s': %v", specifier, err))
					results = append(results, resolveResult{Specifier: specifier, Path: specifier, Format: "-"})
					continue
				}
				return err
			}

			if resolveCheckEngines != "" {
				warnOnEnginesMismatch(resolution.Path, resolveCheckEngines)
			}

			format := string(resolution.Format)
			if format == "" {
				format = "-"
			}
			results = append(results, resolveResult{Specifier: specifier, Path: resolution.Path, Format: format})
		}

		if resolveJSONOutput {
			encoded, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, result := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\n", result.Specifier, result.Path, result.Format)
		}
		w.Flush()
		return nil
	},
}

// nodeOptionsEnableWasm mirrors Node's own reading of NODE_OPTIONS: the
// experimental wasm flag can come from the environment as well as argv.
func nodeOptionsEnableWasm() bool {
	return strings.Contains(os.Getenv("NODE_OPTIONS"), "--experimental-wasm-modules")
}

func init() {
	// resolve flags
	resolveCmd.Flags().StringVarP(&resolveParent, "parent", "p", "",
		"File URL or path of the importing module (default: <cwd>/index.js)")
	resolveCmd.Flags().StringSliceVarP(&resolveConditions, "conditions", "C", []string{},
		"Export conditions to resolve with (default: node,import)")
	resolveCmd.Flags().StringSliceVarP(&resolveExternals, "external", "e", []string{},
		"Glob patterns for specifiers to report as external without resolving")
	resolveCmd.Flags().BoolVar(&resolveWasmModules, "experimental-wasm-modules", false,
		"Classify .wasm files and wasm binaries as importable modules")
	resolveCmd.Flags().BoolVar(&resolveNoCache, "no-cache", false,
		"Run the full algorithm on every specifier instead of caching")
	resolveCmd.Flags().BoolVar(&resolveBestEffort, "best-effort", false,
		"Print unresolvable specifiers unchanged instead of failing")
	resolveCmd.Flags().StringVar(&resolveCheckEngines, "check-engines", "",
		"Warn when a resolved package's engines.node range rejects this Node version")
	resolveCmd.Flags().BoolVar(&resolveJSONOutput, "json", false,
		"Print results as a JSON array")
	resolveCmd.Flags().StringVar(&resolveConfigPath, "config", "",
		"Path to a config file (default: ./"+configFileName+")")

	rootCmd.AddCommand(resolveCmd, docsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
