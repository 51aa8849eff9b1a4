package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/querylab/benchcore/internal/output"
	"github.com/querylab/benchcore/internal/store"
)

// storePath overrides the default history database location.
var storePath string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved benchmark runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.List()
		if err != nil {
			return err
		}
		output.NewReporter(os.Stdout).PrintRunList(runs)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.Get(args[0])
		if err != nil {
			return err
		}
		output.NewReporter(os.Stdout).PrintRun(run)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Delete(args[0])
	},
}

var exportOut string

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved run as a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		doc, err := db.Export(args[0])
		if err != nil {
			return err
		}

		if exportOut == "" {
			fmt.Fprintln(os.Stdout, string(doc))
			return nil
		}
		return os.WriteFile(exportOut, doc, 0o644)
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a previously exported run document",
	Long: `Import validates the document and stores it under a freshly generated
id, so importing the same document twice never collides with an existing run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.Import(doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "imported %q as %s\n", run.Name, run.ID)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyImportCmd)

	historyExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write the document to a file instead of stdout")
	RootCmd.PersistentFlags().StringVar(&storePath, "store", "", "path to the run history database")
}

func openStore() (*store.Store, error) {
	path := storePath
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}
