package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/decmath"
	"github.com/san-kum/orbitsim/internal/precision"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIGITS\tDT\tDURATION\tBODIES\tTRACK")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		bodies := make([]string, len(p.Bodies))
		for i, b := range p.Bodies {
			bodies[i] = b.Name
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%v\t%v\n", name, p.Precision, p.Dt, p.Duration, bodies, p.Tracked())
	}
	return w.Flush()
}

// compareIntegrators runs the scenario once per integrator, the first
// acting as the reference for the deviation column.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	sw := &automation.Sweep{
		Name:      cfg.Name + "-compare",
		Reference: automation.Variant{Label: args[0], Integrator: args[0]},
	}
	for _, name := range args[1:] {
		sw.Variants = append(sw.Variants, automation.Variant{Label: name, Integrator: name})
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing integrators for %s (dt=%s, duration=%s)\n\n", cfg.Name, cfg.Dt, cfg.Duration)
	report, err := automation.Run(ctx, sw, cfg, automation.Options{Logger: logger})
	if err != nil {
		return err
	}
	return printReport(report)
}

func runSweep(cmd *cobra.Command, args []string) error {
	sw, err := automation.LoadSweep(args[0])
	if err != nil {
		return err
	}
	base, err := sw.Base()
	if err != nil {
		return err
	}
	base.ApplyEnv(env)
	if cmd.Flags().Changed("precision") {
		base.Precision = digits
	}

	opts := automation.Options{Logger: logger}
	if sw.Save {
		opts.Store = openStore()
		if err := opts.Store.Init(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := automation.Run(ctx, sw, base, opts)
	if err != nil {
		return err
	}
	return printReport(report)
}

func printReport(r *automation.Report) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tINTEG\tDIGITS\tDT\tSTEPS\tTIME_MS\tENERGY_DRIFT\tMAX_DEV\tAT\tRUN")

	row := func(v automation.VariantResult, dev string) {
		o := v.Outcome
		drift := "-"
		if e, ok := o.Result.Metrics["energy_drift"]; ok {
			drift = fmt.Sprintf("%.3e", e)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.1f\t%s\t%s\t%s\n",
			v.Label,
			o.Result.Integrator,
			o.Scenario.Precision.Digits(),
			o.Scenario.Dt,
			o.Result.StepsTaken,
			float64(o.Result.Elapsed.Microseconds())/1000,
			drift,
			dev,
			v.RunID,
		)
	}

	row(r.Reference, "-\t-")
	for _, v := range r.Variants {
		if v.Compared == 0 {
			row(v, "n/a\t-")
			continue
		}
		row(v, fmt.Sprintf("%.6e\t%g", v.MaxDeviation, v.At))
	}
	return w.Flush()
}

func calcCommand() *cobra.Command {
	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "evaluate arbitrary-precision functions",
	}

	kernel := func() (*decmath.Kernel, error) {
		n := digits
		if n == 0 {
			n = env.Precision
		}
		if n == 0 {
			n = precision.DefaultDigits
		}
		p, err := precision.New(n)
		if err != nil {
			return nil, err
		}
		return decmath.New(p), nil
	}

	unary := func(use, short string, fn func(*decmath.Kernel, decimal.Decimal) (decimal.Decimal, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [x]",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				x, err := decimal.NewFromString(args[0])
				if err != nil {
					return fmt.Errorf("invalid number %q: %w", args[0], err)
				}
				k, err := kernel()
				if err != nil {
					return err
				}
				v, err := fn(k, x)
				if err != nil {
					return err
				}
				fmt.Println(v.String())
				return nil
			},
		}
	}

	piCmd := &cobra.Command{
		Use:   "pi",
		Short: "π",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kernel()
			if err != nil {
				return err
			}
			fmt.Println(k.Pi().String())
			return nil
		},
	}

	nthRootCmd := &cobra.Command{
		Use:   "root [n] [x]",
		Short: "real n-th root of x",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid degree %q: %w", args[0], err)
			}
			x, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", args[1], err)
			}
			k, err := kernel()
			if err != nil {
				return err
			}
			v, err := k.NthRoot(n, x)
			if err != nil {
				return err
			}
			fmt.Println(v.String())
			return nil
		},
	}

	factorialCmd := &cobra.Command{
		Use:   "factorial [n]",
		Short: "n! exactly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid integer %q: %w", args[0], err)
			}
			v, err := decmath.Factorial(n)
			if err != nil {
				return err
			}
			fmt.Println(v.String())
			return nil
		},
	}

	calcCmd.AddCommand(
		piCmd,
		unary("sin", "sine of x radians", func(k *decmath.Kernel, x decimal.Decimal) (decimal.Decimal, error) { return k.Sin(x), nil }),
		unary("cos", "cosine of x radians", func(k *decmath.Kernel, x decimal.Decimal) (decimal.Decimal, error) { return k.Cos(x), nil }),
		unary("sqrt", "square root of x", (*decmath.Kernel).Sqrt),
		nthRootCmd,
		factorialCmd,
	)
	return calcCmd
}
