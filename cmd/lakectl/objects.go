package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload BUCKET LOCAL_PATH KEY",
	Short: "Upload a local file to a data-lake bucket",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, logger, err := newProvisioner(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		if err := p.UploadObject(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("uploaded %s to s3://%s/%s\n", args[1], args[0], args[2])
		return nil
	},
}

var lsPrefix string

var lsCmd = &cobra.Command{
	Use:   "ls BUCKET",
	Short: "List objects in a data-lake bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, logger, err := newProvisioner(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		objs, err := p.ListObjects(cmd.Context(), args[0], lsPrefix)
		if err != nil {
			return err
		}
		if len(objs) == 0 {
			fmt.Println("no objects")
			return nil
		}
		for _, o := range objs {
			fmt.Printf("%12d  %s  %s\n", o.Size, o.LastModified.Format(time.RFC3339), o.Key)
		}
		return nil
	},
}

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm BUCKET",
	Short: "Delete a data-lake bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, logger, err := newProvisioner(cmd.Context())
		if err != nil {
			return err
		}
		defer logger.Sync()
		if err := p.DeleteBucket(cmd.Context(), args[0], rmForce); err != nil {
			return err
		}
		fmt.Printf("deleted bucket %s\n", args[0])
		return nil
	},
}

func init() {
	lsCmd.Flags().StringVar(&lsPrefix, "prefix", "", "only list objects under this prefix")
	rmCmd.Flags().BoolVar(&rmForce, "force", false, "delete all objects before deleting the bucket")
	rootCmd.AddCommand(uploadCmd, lsCmd, rmCmd)
}
