package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/monify-labs/hwfacts/internal/config"
	"github.com/monify-labs/hwfacts/internal/probe"
	"github.com/monify-labs/hwfacts/internal/remote"
	"github.com/monify-labs/hwfacts/internal/report"
)

func main() {
	command := "report"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "report":
		runReport(args)
	case "fields":
		showFields()
	case "version":
		showVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hwfacts - Hardware Inventory Reporter

Usage:
  hwfacts [command] [flags]

Commands:
  report    Collect and print the hardware inventory (default)
  fields    List the known inventory fields
  version   Show version information
  help      Show this help message

Report Flags:
  --json              Print the full report as JSON
  --config PATH       Config file (default: /etc/hwfacts/config.yaml)
  --remote USER@HOST  Inventory a remote host over SSH
  --key PATH          SSH private key for --remote

Environment Variables:
  HWFACTS_CONFIG  Config file path
  HWFACTS_DEBUG   Enable debug logging (true/1)

Examples:
  hwfacts
  hwfacts report --json
  hwfacts report --remote admin@lab-laptop --key ~/.ssh/id_ed25519`)
}

type reportFlags struct {
	json       bool
	configPath string
	remote     string
	keyPath    string
}

func parseReportFlags(args []string) (*reportFlags, error) {
	flags := &reportFlags{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
			flags.json = true
		case "--config", "--remote", "--key":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", args[i])
			}
			value := args[i+1]
			i++
			switch args[i-1] {
			case "--config":
				flags.configPath = value
			case "--remote":
				flags.remote = value
			case "--key":
				flags.keyPath = value
			}
		default:
			return nil, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return flags, nil
}

func runReport(args []string) {
	flags, err := parseReportFlags(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetOutput(os.Stderr)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
	log := logrus.WithField("component", "hwfacts")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var (
		runner probe.CommandRunner
		fs     probe.FileReader
		target = "local"
		local  = true
	)

	sshCfg := cfg.SSH
	if flags.remote != "" {
		sshCfg = sshConfigFromFlag(flags.remote, flags.keyPath, cfg.SSH)
	}
	if sshCfg != nil && sshCfg.Host != "" {
		client := remote.NewClient(sshCfg)
		if err := client.Connect(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()
		runner, fs = client, client
		target = sshCfg.Host
		local = false
	} else {
		runner = probe.NewLocalRunner()
		fs = probe.NewLocalFS()
	}

	prober := probe.NewProber(runner, fs, cfg.Tools, cfg.CommandTimeout, local, log)
	caps := prober.Probe(ctx)

	src := &probe.Source{
		Runner:  runner,
		FS:      fs,
		Caps:    caps,
		Tools:   cfg.Tools,
		Timeout: cfg.CommandTimeout,
	}
	resolver := probe.NewResolver(src, log)

	rep := report.Build(ctx, resolver, probe.SelectFields(cfg.Fields), target)

	if flags.json {
		err = report.RenderJSON(os.Stdout, rep)
	} else {
		err = report.RenderText(os.Stdout, rep)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// sshConfigFromFlag builds an SSH config from user@host, layered over any
// file-provided settings.
func sshConfigFromFlag(remoteFlag, keyPath string, base *remote.Config) *remote.Config {
	cfg := &remote.Config{}
	if base != nil {
		*cfg = *base
	}
	if user, host, ok := strings.Cut(remoteFlag, "@"); ok {
		cfg.User = user
		cfg.Host = host
	} else {
		cfg.Host = remoteFlag
	}
	if keyPath != "" {
		cfg.KeyPath = keyPath
	}
	return cfg
}

func showFields() {
	for _, id := range probe.FieldIDs() {
		fmt.Println(id)
	}
}

func showVersion() {
	fmt.Printf("hwfacts v%s\n", config.Version)
	fmt.Printf("Commit: %s\n", config.Commit)
	fmt.Printf("Build Date: %s\n", config.BuildDate)
}
