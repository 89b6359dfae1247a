// Copyright 2024 Real-Time Innovations, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Binary xml2idl loads XML type files into one global namespace and
// prints the resulting module tree as OMG IDL.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rticommunity/ddsl-go/dtype"
	"github.com/rticommunity/ddsl-go/idlgen"
	"github.com/rticommunity/ddsl-go/util"
	"github.com/rticommunity/ddsl-go/ximport"
)

func newRootCmd() *cobra.Command {
	var debug bool
	rootCmd := &cobra.Command{
		Use:           "xml2idl [-d] <file>...",
		Short:         "xml2idl converts XML type definitions to OMG IDL",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			viper.AutomaticEnv()
			if viper.GetBool("debug") {
				if err := util.RaiseVerbosity(util.SeverityDebug); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := dtype.NewRoot()
			im := ximport.NewImporter(root)
			for _, f := range args {
				if err := im.ImportFile(f); err != nil {
					return fmt.Errorf("%s: %w", f, err)
				}
			}
			out, err := idlgen.Serialize(root)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "raise log verbosity to debug")
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
