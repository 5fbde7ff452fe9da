package cmd

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CrypToolProject/CrypTool-2-sub021/engine/dca/keyrecovery"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/encoding"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/irrecoverable"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/metrics"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/oracle"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/outputs"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/pairs"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/roundconfig"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/util"
	"github.com/CrypToolProject/CrypTool-2-sub021/utils/rand"
)

const (
	flagAlgorithm   = "algorithm"
	flagThreads     = "threads"
	flagAutomatic   = "automatic"
	flagUIUpdate    = "ui-update"
	flagKey         = "key"
	flagTrailPairs  = "trail-pairs"
	flagSeed        = "seed"
	flagMetricsPort = "metrics-port"
	flagReport      = "report"
)

// parserCacheSize bounds the number of cached round descriptions.
const parserCacheSize = 64

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Run a key recovery attack against a simulated cipher with a known key",
	RunE:  runAttack,
}

func init() {
	defaults := keyrecovery.DefaultConfig()
	attackCmd.Flags().String(flagAlgorithm, defaults.Algorithm.String(), "attacked cipher (cipher1, cipher2, cipher3)")
	attackCmd.Flags().Int(flagThreads, defaults.ThreadCount, "number of threads of the round searches")
	attackCmd.Flags().Bool(flagAutomatic, defaults.AutomaticMode, "run all steps without waiting for enter")
	attackCmd.Flags().Bool(flagUIUpdate, defaults.UIUpdateWhileExecution, "show a progress bar with detailed progress")
	attackCmd.Flags().StringSlice(flagKey, nil, "hex subkeys k0,k1,... of the simulated cipher, random if empty")
	attackCmd.Flags().Int(flagTrailPairs, 24, "number of pairs per round search")
	attackCmd.Flags().Int64(flagSeed, 0, "seed of the simulated pair source, time based if 0")
	attackCmd.Flags().Uint(flagMetricsPort, 0, "port of the prometheus metrics server, disabled if 0")
	attackCmd.Flags().String(flagReport, "", "file to write the attack report to")
}

// attackReport is the exported summary of an attack.
type attackReport struct {
	Version      string
	RunID        string
	Algorithm    string
	Key          string
	RoundKeys    string
	Success      bool
	PairRequests int
	Duration     time.Duration
	Rounds       []*dca.RoundRecord
}

func runAttack(_ *cobra.Command, _ []string) error {
	version, err := toolVersion()
	if err != nil {
		return err
	}
	config, err := attackConfig()
	if err != nil {
		return err
	}
	keys, err := attackKeys(config.Algorithm)
	if err != nil {
		return err
	}
	seed := viper.GetInt64(flagSeed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	source, err := oracle.New(config.Algorithm, keys, seed)
	if err != nil {
		return fmt.Errorf("could not create pair source: %w", err)
	}
	encoder, err := encoding.ForFormat(viper.GetString(flagFormat))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	registry := prometheus.NewRegistry()
	collector := metrics.NewAttackCollector(registry)
	if port := viper.GetUint(flagMetricsPort); port > 0 {
		server := metrics.NewServer(log, port, registry)
		signalerCtx, errChan := irrecoverable.WithSignaler(ctx)
		server.Start(signalerCtx)
		<-server.Ready()
		go func() {
			if err := util.WaitError(errChan, server.Done()); err != nil {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer func() {
			cancel()
			<-util.AllDone(server)
		}()
	}

	history, closeHistory, err := openHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	host := newHostOutputs()
	sinks := outputs.NewDistributor()
	sinks.AddOutputs(host)
	if config.UIUpdateWhileExecution {
		sinks.AddOutputs(newProgressOutputs(config.Algorithm))
	}

	parser, err := roundconfig.NewCachingParser(roundconfig.NewParser(), parserCacheSize)
	if err != nil {
		return fmt.Errorf("could not create parser: %w", err)
	}
	orchestrator := keyrecovery.NewOrchestrator(log, collector, sinks, history, parser)
	err = orchestrator.PreExecution(config)
	if err != nil {
		return err
	}
	defer orchestrator.PostExecution()
	runID, _ := orchestrator.RunID()

	lg := log.With().
		Str("run_id", runID.String()).
		Str("algorithm", config.Algorithm.String()).
		Logger()
	lg.Info().
		Str("version", version.String()).
		Str("key", hex.EncodeToString(dca.EncodeRoundKeys(keys))).
		Int64("seed", seed).
		Msg("starting attack")

	if !config.AutomaticMode {
		go stepOnEnter(ctx, orchestrator)
	}

	started := time.Now()
	err = feedSteps(orchestrator, source, config.Algorithm, viper.GetInt(flagTrailPairs))
	if err != nil {
		return err
	}

	for done := false; !done; {
		select {
		case <-ctx.Done():
			lg.Warn().Msg("interrupted")
			orchestrator.Stop()
			done = true
		case <-orchestrator.Done():
			done = true
		case difference := <-host.requests:
			pt, ct := source.ChosenPair(difference)
			orchestrator.SetPlaintextPairs(pairs.Encode([]dca.Pair{pt}))
			orchestrator.SetCiphertextPairs(pairs.Encode([]dca.Pair{ct}))
			orchestrator.Execute()
		}
	}
	duration := time.Since(started)

	report := &attackReport{
		Version:      version.String(),
		RunID:        runID.String(),
		Algorithm:    config.Algorithm.String(),
		Key:          hex.EncodeToString(dca.EncodeRoundKeys(keys)),
		RoundKeys:    hex.EncodeToString(host.RoundKeys()),
		PairRequests: orchestrator.PairRequests(),
		Duration:     duration,
		Rounds:       host.Rounds(),
	}
	report.Success = report.RoundKeys == report.Key

	lg.Info().
		Bool("success", report.Success).
		Str("round_keys", report.RoundKeys).
		Int("pair_requests", report.PairRequests).
		Str("duration", units.HumanDuration(duration)).
		Msg("attack finished")

	if path := viper.GetString(flagReport); path != "" {
		data, err := encoder.Encode(report)
		if err != nil {
			return fmt.Errorf("could not encode report: %w", err)
		}
		err = os.WriteFile(path, data, 0o644)
		if err != nil {
			return fmt.Errorf("could not write report: %w", err)
		}
		lg.Info().Str("path", path).Str("size", units.HumanSize(float64(len(data)))).Msg("wrote report")
	}
	return nil
}

func attackConfig() (keyrecovery.Config, error) {
	var config keyrecovery.Config
	err := viper.Unmarshal(&config, viper.DecodeHook(keyrecovery.ConfigDecodeHook()))
	if err != nil {
		return keyrecovery.Config{}, fmt.Errorf("could not decode attack settings: %w", err)
	}
	if config.ThreadCount > runtime.NumCPU() {
		log.Warn().Int("threads", config.ThreadCount).Int("cpus", runtime.NumCPU()).Msg("thread count exceeds the number of CPUs and will be clamped")
	}
	return config, config.Validate()
}

// attackKeys parses the subkeys of the simulated cipher or draws random ones.
func attackKeys(algorithm dca.Algorithm) ([]uint16, error) {
	values := viper.GetStringSlice(flagKey)
	if len(values) == 0 {
		keys := make([]uint16, algorithm.SubkeyCount())
		for i := range keys {
			k, err := rand.Uint64n(1 << 16)
			if err != nil {
				return nil, fmt.Errorf("could not draw random key: %w", err)
			}
			keys[i] = uint16(k)
		}
		return keys, nil
	}

	if len(values) != algorithm.SubkeyCount() {
		return nil, fmt.Errorf("%s needs %d subkeys, got %d", algorithm, algorithm.SubkeyCount(), len(values))
	}
	keys := make([]uint16, len(values))
	for i, v := range values {
		k, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(v), "0x"), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid subkey %q: %w", v, err)
		}
		keys[i] = uint16(k)
	}
	return keys, nil
}

// feedSteps hands the round configurations of the planned attack to the
// orchestrator, each with its own trail pairs. A cipher without intermediate
// rounds gets a first chosen pair instead.
func feedSteps(o *keyrecovery.Orchestrator, source *oracle.Oracle, algorithm dca.Algorithm, trailPairs int) error {
	steps := source.Plan()
	if len(steps) == 0 {
		pt, ct := source.ChosenPair(0xffff)
		o.SetPlaintextPairs(pairs.Encode([]dca.Pair{pt}))
		o.SetCiphertextPairs(pairs.Encode([]dca.Pair{ct}))
		o.Execute()
		return nil
	}

	for _, step := range steps {
		cfg := step.Configuration
		pt, ct, err := source.TrailPairs(cfg.Round, cfg.ExpectedDifference, trailPairs)
		if err != nil {
			return fmt.Errorf("could not generate pairs for round %d: %w", cfg.Round, err)
		}
		description, err := roundconfig.Marshal(cfg, algorithm)
		if err != nil {
			return err
		}
		o.SetDifferential(description)
		o.SetPlaintextPairs(pairs.Encode(pt))
		o.SetCiphertextPairs(pairs.Encode(ct))
		o.Execute()
	}
	return nil
}

// stepOnEnter opens the start gate on the first enter and releases one step on
// every further enter.
func stepOnEnter(ctx context.Context, o *keyrecovery.Orchestrator) {
	log.Info().Msg("press enter to start the attack")
	scanner := bufio.NewScanner(os.Stdin)
	started := false
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if !started {
			o.Start()
			started = true
			continue
		}
		o.NextStep()
	}
}
