package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Smartlogic-Semaphore-Limited/rdf-canonize/canon"
)

const (
	keyAlgorithm         = "canonicalize.algorithm"
	keyDigest            = "canonicalize.digest"
	keyHMACKey           = "canonicalize.hmac_key"
	keyMaxDeepIterations = "canonicalize.max_deep_iterations"
)

func newCanonicalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonicalize [file...]",
		Short: "Read N-Quads and write their URDNA2015 canonical form.",
		Long: `Reads N-Quads from the given files, or from stdin if none are
given (or a single "-" is given), canonicalizes the resulting dataset,
and writes the canonical N-Quads to stdout.`,
		RunE: runCanonicalize,
	}

	cmd.Flags().String("algorithm", canon.AlgorithmURDNA2015, `canonicalization algorithm (only "URDNA2015" is supported)`)
	cmd.Flags().String("digest", "sha256", `message digest to use ("sha256", "hmac-sha256", "blake2b")`)
	cmd.Flags().String("hmac-key", "", "key for --digest=hmac-sha256 (required in that mode)")
	cmd.Flags().Int("max-deep-iterations", 0, "cap on NDegreeHasher recursive entries; 0 means unbounded")

	viper.BindPFlag(keyAlgorithm, cmd.Flags().Lookup("algorithm"))
	viper.BindPFlag(keyDigest, cmd.Flags().Lookup("digest"))
	viper.BindPFlag(keyHMACKey, cmd.Flags().Lookup("hmac-key"))
	viper.BindPFlag(keyMaxDeepIterations, cmd.Flags().Lookup("max-deep-iterations"))

	return cmd
}

func runCanonicalize(cmd *cobra.Command, args []string) error {
	ds, err := readDatasets(args)
	if err != nil {
		return err
	}

	opts, err := optionsFromViper()
	if err != nil {
		return err
	}

	if opts.MaxDeepIterations > 0 {
		glog.V(1).Infof("max-deep-iterations set to %d", opts.MaxDeepIterations)
	}

	start := time.Now()
	quads, err := canon.Canonicalize(ds, opts)
	if err != nil {
		return err
	}

	out := canon.Serialize(quads, nil)
	if _, err := io.WriteString(os.Stdout, out); err != nil {
		return err
	}

	glog.Infof("canonicalized %d quads into %d bytes in %s", len(ds.Quads), len(out), time.Since(start))
	return nil
}

func readDatasets(args []string) (*canon.Dataset, error) {
	ds := canon.NewDataset()
	if len(args) == 0 {
		args = []string{"-"}
	}

	for _, name := range args {
		r, err := openInput(name)
		if err != nil {
			return nil, err
		}

		part, err := canon.ReadDataset(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ds.Quads = append(ds.Quads, part.Quads...)
	}

	return ds, nil
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

func optionsFromViper() (*canon.Options, error) {
	opts := &canon.Options{
		Algorithm:         viper.GetString(keyAlgorithm),
		MaxDeepIterations: viper.GetInt(keyMaxDeepIterations),
	}

	switch viper.GetString(keyDigest) {
	case "", "sha256":
		opts.CreateMessageDigest = func() canon.MessageDigest { return canon.NewSHA256Digest() }
	case "blake2b":
		opts.CreateMessageDigest = func() canon.MessageDigest { return canon.NewBlake2bDigest() }
	case "hmac-sha256":
		key := viper.GetString(keyHMACKey)
		if key == "" {
			return nil, canon.NewCanonicalizeError(canon.ConfigurationError, "--hmac-key is required for --digest=hmac-sha256")
		}
		opts.CreateMessageDigest = canon.NewHMACSHA256Digest([]byte(key))
	default:
		return nil, canon.NewCanonicalizeError(canon.ConfigurationError, "unknown --digest: "+viper.GetString(keyDigest))
	}

	return opts, nil
}
