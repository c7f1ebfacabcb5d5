package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/conformance"
	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CONNECTOR_CONFORMANCE"

const (
	publicURLFlag      = "public-url"
	privateURLFlag     = "private-url"
	grpcTargetFlag     = "grpc-target"
	bindingsFlag       = "bindings"
	ownerIDFlag        = "owner-id"
	foreignOwnerIDFlag = "foreign-owner-id"
	adminClientIDFlag  = "admin-client-id"
	adminPSKFlag       = "admin-psk"
	caCertFlag         = "ca-cert"
	skipVerifyFlag     = "skip-verify"
	timeoutFlag        = "timeout"
	reportFlag         = "report"
	debugFlag          = "debug"
	debugAllFlag       = "debug-all"
)

var errConformanceFailures = errors.New("connector service does not conform")

func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

// newRootCommand also returns the viper instance the flags are bound to
func newRootCommand() (*cobra.Command, *viper.Viper) {

	options := viper.New()
	var filters framework.RegexFilters

	// rootCmd runs the harness when called without any subcommands
	var rootCmd = &cobra.Command{
		Use:           "conformance",
		Short:         "Connector service conformance harness",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(options, filters)
		},
	}

	var listSuitesCmd = &cobra.Command{
		Use:   "list-suites",
		Short: "List the conformance suites",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range conformance.SuiteNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	flags := rootCmd.Flags()
	flags.String(publicURLFlag, "http://localhost:8080/v1alpha", "base URL of the public REST API")
	flags.String(privateURLFlag, "http://localhost:8081/v1alpha", "base URL of the private REST API")
	flags.String(grpcTargetFlag, "localhost:9090", "gRPC target of the connector service")
	flags.StringSlice(bindingsFlag, []string{conformance.RestBindingName, conformance.GrpcBindingName}, "bindings to exercise")
	flags.String(ownerIDFlag, "local-user", "registered owner id the connectors are created under")
	flags.String(foreignOwnerIDFlag, "", "second registered owner id used for cross-owner checks")
	flags.String(adminClientIDFlag, "", "pre-shared key client id for the private API")
	flags.String(adminPSKFlag, "", "pre-shared key for the private API")
	flags.String(caCertFlag, "", "CA certificate used to verify the service")
	flags.Bool(skipVerifyFlag, false, "skip TLS certificate verification")
	flags.Duration(timeoutFlag, 10*time.Second, "timeout applied to every request")
	flags.String(reportFlag, "", "file the JSON report is written to")
	flags.Bool(debugFlag, false, "log captured request output for failed tests")
	flags.Bool(debugAllFlag, false, "log captured request output for all tests")
	flags.Var(&filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	flags.Var(&filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")

	options.SetEnvPrefix(envPrefix)
	options.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	options.AutomaticEnv()
	if err := options.BindPFlags(flags); err != nil {
		logger.LogFatalError("Unable to bind conformance flags", err)
	}

	rootCmd.AddCommand(listSuitesCmd)

	return rootCmd, options
}

func configFromOptions(options *viper.Viper) conformance.Config {
	return conformance.Config{
		PublicURL:      options.GetString(publicURLFlag),
		PrivateURL:     options.GetString(privateURLFlag),
		GrpcTarget:     options.GetString(grpcTargetFlag),
		Bindings:       options.GetStringSlice(bindingsFlag),
		OwnerID:        options.GetString(ownerIDFlag),
		ForeignOwnerID: options.GetString(foreignOwnerIDFlag),
		AdminClientID:  options.GetString(adminClientIDFlag),
		AdminPSK:       options.GetString(adminPSKFlag),
		CACertFile:     options.GetString(caCertFlag),
		SkipTLSVerify:  options.GetBool(skipVerifyFlag),
		RequestTimeout: options.GetDuration(timeoutFlag),
	}
}

func runConformance(options *viper.Viper, filters framework.RegexFilters) error {

	cfg := configFromOptions(options)
	logger.Log.Info("Starting connector service conformance run")
	logger.Log.Info("Conformance configuration: ", cfg)

	factories, err := conformance.NewBindingFactories(cfg)
	if err != nil {
		logger.LogError("Invalid binding configuration", err)
		return err
	}

	testLogger := &framework.LogrusTestLogger{
		Log:                  logger.Log.WithFields(logrus.Fields{"component": "conformance"}),
		DebugOutputOnFailure: options.GetBool(debugFlag) || options.GetBool(debugAllFlag),
		DebugOutputOnSuccess: options.GetBool(debugAllFlag),
	}

	ctx := rootContext()

	results := conformance.Run(ctx, cfg, factories, filters.AsFilter, testLogger)

	report := conformance.NewReport(cfg, results, time.Now().UTC())

	fmt.Fprint(os.Stdout, report.Summary())

	if reportFile := options.GetString(reportFlag); reportFile != "" {
		if err := writeReport(&report, reportFile); err != nil {
			logger.LogError("Unable to write conformance report", err)
			return err
		}
		logger.Log.WithFields(logrus.Fields{"file": reportFile}).Info("Wrote conformance report")
	}

	if !results.OK() {
		logger.Log.WithFields(logrus.Fields{"failures": len(results.Failures)}).Error("Conformance run failed")
		return errConformanceFailures
	}

	logger.Log.WithFields(logrus.Fields{"tests": len(results.Tests)}).Info("Conformance run passed")
	return nil
}

func writeReport(report *conformance.Report, fileName string) error {
	contents, err := report.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(fileName, []byte(contents), 0o644)
}

func main() {

	logger.InitLogger()
	defer logger.FlushLogger()

	if err := NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, errConformanceFailures) {
			fmt.Fprintln(os.Stderr, err)
		}
		logger.FlushLogger()
		os.Exit(1)
	}
}
