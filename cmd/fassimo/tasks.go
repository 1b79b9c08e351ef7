package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Fasscorp/FassimoV3/internal/config"
	"github.com/Fasscorp/FassimoV3/internal/store"
	"github.com/Fasscorp/FassimoV3/internal/tasks"
)

// tasksCmd lists stored tasks outside the chat loop. Only useful with
// persistence enabled; an in-memory store dies with the chat process.
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List stored tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(workspace)
		if err != nil {
			return err
		}
		if !cfg.Storage.Persist {
			return fmt.Errorf("persistence is disabled; enable storage.persist in %s", config.Path(workspace))
		}

		local, err := store.NewLocalStore(filepath.Join(workspace, cfg.Storage.DatabasePath))
		if err != nil {
			return err
		}
		defer local.Close()

		items, err := local.List()
		if err != nil {
			return err
		}
		fmt.Println(tasks.FormatList(items))
		return nil
	},
}
