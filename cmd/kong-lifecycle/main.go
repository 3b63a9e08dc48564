/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/adminapi"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/config"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/constants"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/lifecycle"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapOptions := zap.Options{}
	zapOptions.BindFlags(flag.CommandLine)

	cfg.AddFlags(pflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	log.SetLogger(zap.New(zap.UseFlagOptions(&zapOptions)))

	logger := log.Log.WithName("init")
	logger.Info("harness starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

	if err := cfg.Validate(); err != nil {
		logger.Error(err, "configuration rejected")
		os.Exit(1)
	}

	ctx := log.IntoContext(cr.SetupSignalHandler(), log.Log.WithName("lifecycle"))

	os.Exit(run(ctx, cfg, os.Stdout))
}

// run executes a lifecycle and prints the report, returning the exit code.
func run(ctx context.Context, cfg *config.Config, out io.Writer) int {
	client := adminapi.NewFromConfig(cfg)

	if err := client.Ping(ctx); err != nil {
		log.FromContext(ctx).Error(err, "admin API unavailable", "url", cfg.AdminURL)
		return 1
	}

	runner := lifecycle.NewRunner(client, lifecycle.NewFixture(cfg), lifecycle.OptionsFromConfig(cfg))

	report := runner.Run(ctx)

	printReport(out, report)

	if !report.OK() {
		return 1
	}

	return 0
}

func printReport(out io.Writer, report *lifecycle.Report) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	skip := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(out)

	if report.SetupErr != nil {
		fmt.Fprintf(out, "%s setup: %v\n", fail("FAIL"), report.SetupErr)
	}

	for _, c := range report.Cases {
		switch {
		case c.Skipped:
			fmt.Fprintf(out, "%s %s\n", skip("SKIP"), c.Name)
		case c.Err != nil:
			fmt.Fprintf(out, "%s %s\n     %v\n", fail("FAIL"), c.Name, c.Err)
		default:
			fmt.Fprintf(out, "%s %s\n", pass("PASS"), c.Name)
		}
	}

	if t := report.Teardown; t != nil {
		fmt.Fprintf(out, "\nteardown: route %s, service %s\n", t.Route, t.Service)

		for _, resource := range t.Residual {
			fmt.Fprintf(out, "%s %s still present, remove it manually\n", fail("LEFT"), resource)
		}
	}

	fmt.Fprintln(out)

	if report.OK() {
		fmt.Fprintln(out, pass("All tests passed"))
		return
	}

	if report.SetupErr != nil {
		fmt.Fprintln(out, fail("Setup failed, no tests were run"))
		return
	}

	fmt.Fprintln(out, fail(fmt.Sprintf("%d test(s) failed", len(report.Failures()))))
}
