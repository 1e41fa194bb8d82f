package main

import (
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

func main() {
	defer glog.Flush()

	root := &cobra.Command{
		Use:   "rdfcanonize",
		Short: "Canonicalize RDF datasets using URDNA2015.",
	}
	root.AddCommand(newCanonicalizeCmd())

	if err := root.Execute(); err != nil {
		glog.Errorf("rdfcanonize: %v", err)
		os.Exit(1)
	}
}
