package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/encoding"
	"github.com/CrypToolProject/CrypTool-2-sub021/storage"
	bstorage "github.com/CrypToolProject/CrypTool-2-sub021/storage/badger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the stored attack runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a stored attack run with its rounds",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
}

// storedRun is the exported form of a stored attack run.
type storedRun struct {
	*dca.AttackRun
	Rounds []*dca.RoundRecord
}

// openHistory opens the attack history in the data directory. Without a data
// directory the history is disabled and nil is returned.
func openHistory() (storage.AttackHistory, func(), error) {
	dir := viper.GetString(flagDatadir)
	if dir == "" {
		return nil, func() {}, nil
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, nil, fmt.Errorf("could not open history database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("could not close history database")
		}
	}
	return bstorage.NewHistory(db), closeDB, nil
}

func requireHistory() (storage.AttackHistory, func(), error) {
	if viper.GetString(flagDatadir) == "" {
		return nil, nil, fmt.Errorf("--%s is required", flagDatadir)
	}
	return openHistory()
}

func runHistoryList(_ *cobra.Command, _ []string) error {
	history, closeHistory, err := requireHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	runs, err := history.Runs()
	if err != nil {
		return fmt.Errorf("could not list runs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tALGORITHM\tSTATUS\tSTARTED\tDURATION\tROUND KEYS\tPAIRS")
	for _, run := range runs {
		duration := "-"
		if !run.FinishedAt.IsZero() {
			duration = units.HumanDuration(run.FinishedAt.Sub(run.StartedAt))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Algorithm,
			run.Status,
			run.StartedAt.Local().Format(time.RFC3339),
			duration,
			hex.EncodeToString(run.RoundKeys),
			run.PairRequests,
		)
	}
	return w.Flush()
}

func runHistoryShow(_ *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}
	encoder, err := encoding.ForFormat(viper.GetString(flagFormat))
	if err != nil {
		return err
	}
	history, closeHistory, err := requireHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	run, err := history.ByID(runID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve run: %w", err)
	}
	rounds, err := history.Rounds(runID)
	if err != nil {
		return fmt.Errorf("could not retrieve rounds: %w", err)
	}

	data, err := encoder.Encode(&storedRun{AttackRun: run, Rounds: rounds})
	if err != nil {
		return fmt.Errorf("could not encode run: %w", err)
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
