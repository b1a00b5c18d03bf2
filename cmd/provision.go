/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/authwave/apiserver/config"
	"github.com/authwave/apiserver/internal/storage"
	"github.com/authwave/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// provisionCmd creates the managed resources the server expects: the
// DynamoDB users table and the profile-image bucket.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the users table and the profile-image bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		if cfg.StoreBackend == config.StoreBackendDynamo {
			dynamoStore, err := store.NewDynamoStore(ctx, cfg.Dynamo)
			if err != nil {
				return fmt.Errorf("dynamo client failed: %w", err)
			}
			if err := dynamoStore.EnsureTable(ctx); err != nil {
				return fmt.Errorf("create table failed: %w", err)
			}
		}

		var backend storage.ObjectStorage
		var err error
		switch cfg.StorageBackend {
		case config.StorageBackendMinio:
			backend, err = storage.NewMinioClient(cfg.Minio)
		case config.StorageBackendGCS:
			backend, err = storage.NewGCSClient(ctx, cfg.GCS)
		default:
			return fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
		}
		if err != nil {
			return fmt.Errorf("storage client failed: %w", err)
		}
		if err := backend.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("create bucket failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}
