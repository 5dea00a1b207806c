package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/archive"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/export"
)

// archiveCommand creates the archive command for sharing export documents
// through MongoDB.
func (c *CLI) archiveCommand() *cobra.Command {
	var mongoURI string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve export documents in MongoDB",
		Long: `Archive keeps sampled export documents in a shared MongoDB collection
so that a fixed sample can be referenced across the research group.

Examples:
  bioguard archive put graph.json --label jan-sample
  bioguard archive list
  bioguard archive get 9f2c... -o graph.json
  bioguard archive delete 9f2c...`,
	}

	cmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string (default from "+configFileName+")")

	cmd.AddCommand(c.archivePutCommand(&mongoURI))
	cmd.AddCommand(c.archiveListCommand(&mongoURI))
	cmd.AddCommand(c.archiveGetCommand(&mongoURI))
	cmd.AddCommand(c.archiveDeleteCommand(&mongoURI))

	return cmd
}

// connectArchive opens the configured MongoDB store.
func (c *CLI) connectArchive(ctx context.Context, mongoURI string) (*archive.Store, error) {
	uri := mongoURI
	if uri == "" {
		uri = c.config().MongoURI
	}
	if uri == "" {
		return nil, fmt.Errorf("no MongoDB URI: pass --mongo-uri or set mongo_uri in %s", configFileName)
	}
	return archive.Connect(ctx, uri, archive.DefaultDatabase, archive.DefaultCollection)
}

// archivePutCommand creates the "archive put" subcommand.
func (c *CLI) archivePutCommand(mongoURI *string) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Archive an existing export document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var doc export.Document
			if err := doc.UnmarshalJSON(data); err != nil {
				return err
			}

			store, err := c.connectArchive(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			name := label
			if name == "" {
				name = filepath.Base(args[0])
			}
			id, err := store.Put(ctx, name, &doc)
			if err != nil {
				return err
			}
			printSuccess("Archived as %s", id)
			printDetail("label: %s", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "label for the archived document (default file name)")
	return cmd
}

// archiveListCommand creates the "archive list" subcommand.
func (c *CLI) archiveListCommand(mongoURI *string) *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived export documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.connectArchive(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			records, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("Archive is empty")
				return nil
			}
			for _, rec := range records {
				printKeyValue(rec.ID, fmt.Sprintf("%s  %d nodes  %d edges  %s",
					rec.Label,
					rec.Metadata.NumAirports+rec.Metadata.NumLineages,
					rec.Metadata.NumEdges,
					rec.CreatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 20, "maximum records to list")
	return cmd
}

// archiveGetCommand creates the "archive get" subcommand.
func (c *CLI) archiveGetCommand(mongoURI *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch an archived document by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.connectArchive(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err = os.Stdout.Write(rec.Payload)
				return err
			}
			if err := os.WriteFile(output, rec.Payload, 0o644); err != nil {
				return err
			}
			printSuccess("Fetched %s", rec.Label)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// archiveDeleteCommand creates the "archive delete" subcommand.
func (c *CLI) archiveDeleteCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an archived document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.connectArchive(ctx, *mongoURI)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
