/*
 * options.go, part of goMol.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/rmera/gomol/biounit"
)

var optionsCmd = &cobra.Command{
	Use:   "options [OPTIONS.yaml]",
	Short: "Print assembly builder options as YAML",
	Long: `Prints the default assembly builder options, or, if a file is given,
the options it sets, completed with the defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := biounit.DefaultOptions()
		if len(args) > 0 {
			var err error
			if opts, err = biounit.ReadOptionsFile(args[0]); err != nil {
				return err
			}
		}
		return opts.WriteYAML(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
