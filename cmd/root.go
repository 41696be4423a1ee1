// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ethbook/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ethbook",
	Short: "Manage your contacts together with their Ethereum identities",
	Long: `Ethbook is a command line contact book for people who live on Ethereum.

It keeps regular contact data (name, phone, email) side by side with each
contact's Ethereum identity:

	1. A wallet address (0x...) or an ENS name can be attached to any
	contact. Ethbook tells them apart automatically and always shows
	addresses in their EIP-55 checksum form.

	2. Contacts are searchable by name or identity with typo tolerance,
	so "vitalik.etj" still finds the right entry.

	3. An ENS fallback can be stored in preferences for contacts whose
	identity slot is taken by a wallet address.

All data lives in a local SQLite file under the data directory (~/.ethbook by
default); nothing ever leaves your machine.

For more information or support, reach me at https://github.com/tranvictor.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.DataDir, "data-dir", "d", "", "directory holding the contact db, preferences and search index. Default: ~/.ethbook.")
	rootCmd.PersistentFlags().StringVarP(&config.JSONOutputFile, "json-output", "o", "", "write the command's result to a json file in addition to the terminal output")
	rootCmd.PersistentFlags().BoolVar(&config.NoColor, "no-color", false, "disable colored output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
