package main

import (
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/tiller-ui/tiller/internal/config"
	"github.com/tiller-ui/tiller/internal/errors"
)

func deployCmd() *cobra.Command {
	var (
		bucket string
		region string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the build output to S3",
		Long: `Upload the build output directory to an S3 bucket.

Bucket, region, and key prefix come from the deploy section of
tiller.json and can be overridden with flags. Credentials come from
the standard AWS SDK chain (environment, shared config, instance
role).

Examples:
  tiller deploy
  tiller deploy --bucket=my-app-assets --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Deploy.Bucket = bucket
			}
			if region != "" {
				cfg.Deploy.Region = region
			}
			if prefix != "" {
				cfg.Deploy.Prefix = prefix
			}
			return runDeploy(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Target S3 bucket (default from tiller.json)")
	cmd.Flags().StringVar(&region, "region", "", "Bucket region (default from tiller.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from tiller.json)")

	return cmd
}

func runDeploy(ctx context.Context, cfg *config.Config) error {
	if cfg.Deploy.Bucket == "" {
		return errors.New("E202").WithDetail("no bucket configured")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Deploy.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Deploy.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return errors.Wrap("E202", err)
	}
	client := s3.NewFromConfig(awsCfg)

	uploaded := 0
	err = filepath.Walk(cfg.Output, func(file string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}

		rel, err := filepath.Rel(cfg.Output, file)
		if err != nil {
			return err
		}
		key := path.Join(cfg.Deploy.Prefix, filepath.ToSlash(rel))

		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(file))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		// .wasm must be served with its proper type for
		// instantiateStreaming to work.
		if strings.HasSuffix(file, ".wasm") {
			contentType = "application/wasm"
		}

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(cfg.Deploy.Bucket),
			Key:           aws.String(key),
			Body:          f,
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(fi.Size()),
		})
		if err != nil {
			return err
		}

		uploaded++
		info("uploaded %s", key)
		return nil
	})
	if err != nil {
		return errors.Wrap("E202", err)
	}

	success("deployed %d files to s3://%s/%s",
		uploaded, cfg.Deploy.Bucket, cfg.Deploy.Prefix)
	return nil
}
