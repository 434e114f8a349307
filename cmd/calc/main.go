// cmd/calc/main.go — command line front end for the calcengine library.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	calcengine "github.com/tmathis/calcengine"
)

var (
	resultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type cliConfig struct {
	SearchMin float64 `yaml:"search_min"`
	SearchMax float64 `yaml:"search_max"`
	SeedStep  float64 `yaml:"seed_step"`
	Samples   int     `yaml:"samples"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{SearchMin: -10, SearchMax: 10, SeedStep: 0.5, Samples: 41}
}

func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	var configPath string
	cfg := defaultCLIConfig()

	rootCmd := &cobra.Command{
		Use:           "calc",
		Short:         "Expression evaluator and numerical methods toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadCLIConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(
		evalCmd(),
		graphCmd(&cfg),
		rootsCmd(&cfg),
		solveCmd(),
		quadCmd(),
		matrixCmd(),
		deriveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func evalCmd() *cobra.Command {
	var bindingFlags []string
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings, err := parseBindings(bindingFlags)
			if err != nil {
				return err
			}
			v, err := calcengine.Evaluate(args[0], bindings)
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(v.Format()))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&bindingFlags, "bind", "b", nil, "variable binding, e.g. -b x=2.5 (repeatable)")
	return cmd
}

func graphCmd(cfg *cliConfig) *cobra.Command {
	var xStart, xEnd float64
	var count int
	cmd := &cobra.Command{
		Use:   "graph <expression>",
		Short: "Sample an expression of x over an interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("points") {
				count = cfg.Samples
			}
			points := calcengine.Sample(args[0], xStart, xEnd, count)
			for _, p := range points {
				if p.Defined {
					fmt.Printf("%s\t%s\n", strconv.FormatFloat(p.X, 'g', -1, 64), strconv.FormatFloat(p.Y, 'g', -1, 64))
				} else {
					fmt.Printf("%s\t%s\n", strconv.FormatFloat(p.X, 'g', -1, 64), labelStyle.Render("undefined"))
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&xStart, "from", -10, "start of the x interval")
	cmd.Flags().Float64Var(&xEnd, "to", 10, "end of the x interval")
	cmd.Flags().IntVar(&count, "points", 41, "number of samples, endpoints included")
	return cmd
}

func rootsCmd(cfg *cliConfig) *cobra.Command {
	var derivative string
	cmd := &cobra.Command{
		Use:   "roots <expression>",
		Short: "Find real roots of an expression of x",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := calcengine.FindRoots(args[0], derivative, cfg.SearchMin, cfg.SearchMax, cfg.SeedStep)
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				fmt.Println(labelStyle.Render("no roots found in the search interval"))
				return nil
			}
			for _, r := range roots {
				fmt.Println(resultStyle.Render("x = " + strconv.FormatFloat(r, 'g', -1, 64)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&derivative, "derivative", "d", "", "derivative expression (derived symbolically when empty)")
	return cmd
}

func solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve <eq1> <eq2>",
		Short: "Solve two linear equations of the form \"ax + by = c\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := calcengine.Solve2x2Text(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(fmt.Sprintf("x = %g, y = %g", x, y)))
			return nil
		},
	}
}

func quadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quad <a> <b> <c>",
		Short: "Classify and solve ax^2 + bx + c = 0",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			coeffs := make([]float64, 3)
			for i, s := range args {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("coefficient %q is not a number", s)
				}
				coeffs[i] = f
			}
			q, err := calcengine.ClassifyQuadratic(coeffs[0], coeffs[1], coeffs[2])
			if err != nil {
				return err
			}
			fmt.Println(labelStyle.Render("discriminant: ") + strconv.FormatFloat(q.Discriminant, 'g', -1, 64))
			fmt.Println(labelStyle.Render("case:         ") + string(q.Case))
			fmt.Println(resultStyle.Render(q.String()))
			return nil
		},
	}
}

func matrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix <op> <a> [b]",
		Short: "Run a matrix operation on matrix-literal operands",
		Long: "Operations: add, subtract, multiply, determinant, inverse, transpose, eigenvalues, lu.\n" +
			"Operands are matrix literals, e.g. '[[1,2],[3,4]]'.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseGrid(args[1])
			if err != nil {
				return err
			}
			var b calcengine.Grid
			if len(args) == 3 {
				if b, err = parseGrid(args[2]); err != nil {
					return err
				}
			}
			v, err := calcengine.ComputeMatrixOp(calcengine.MatrixOp(args[0]), a, b)
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(v.Format()))
			return nil
		},
	}
	return cmd
}

func deriveCmd() *cobra.Command {
	var variable string
	cmd := &cobra.Command{
		Use:   "derive <expression>",
		Short: "Print the symbolic derivative of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := calcengine.Derive(args[0], variable)
			if err != nil {
				return err
			}
			fmt.Println(resultStyle.Render(d))
			return nil
		},
	}
	cmd.Flags().StringVar(&variable, "var", "x", "variable to differentiate with respect to")
	return cmd
}

func parseBindings(flags []string) (map[string]float64, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(flags))
	for _, f := range flags {
		name, val, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("binding %q must have the form name=value", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("binding %q: value is not a number", f)
		}
		out[strings.TrimSpace(name)] = x
	}
	return out, nil
}

// parseGrid turns a matrix literal argument into a cell grid by
// evaluating it first, so the operand gets the evaluator's own shape
// diagnostics instead of ad hoc string splitting.
func parseGrid(literal string) (calcengine.Grid, error) {
	v, err := calcengine.Evaluate(literal, nil)
	if err != nil {
		return nil, err
	}
	if v.Kind() != calcengine.KindMatrix {
		return nil, fmt.Errorf("operand %q is not a matrix literal", literal)
	}
	m := v.Matrix()
	g := make(calcengine.Grid, m.Rows())
	for i := range g {
		g[i] = make([]string, m.Cols())
		for j := range g[i] {
			g[i][j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
	}
	return g, nil
}
