/*
 * path.go, part of goMol.
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
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rmera/gomol/internal/job"
)

var pathCmd = &cobra.Command{
	Use:   "path JOB.yaml FROM TO",
	Short: "Print the shortest bond path between two atoms",
	Long: `Builds the source structure described in JOB.yaml and prints the atoms
in the shortest bond path between FROM and TO, given as chain/number/name,
one per line.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPath(cmd.OutOrStdout(), logger(cmd), args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

func runPath(w io.Writer, logger *slog.Logger, jobFile, from, to string) error {
	J, err := job.ReadFile(jobFile)
	if err != nil {
		return err
	}
	ent, err := J.Build(logger)
	if err != nil {
		return fmt.Errorf("building %s: %w", J.Name, err)
	}
	a, err := job.FindAtom(ent, from)
	if err != nil {
		return err
	}
	b, err := job.FindAtom(ent, to)
	if err != nil {
		return err
	}
	atoms, err := ent.ShortestPath(a, b)
	if err != nil {
		return err
	}
	if atoms == nil {
		return fmt.Errorf("%s and %s are not bonded to each other", from, to)
	}
	for _, at := range atoms {
		ref, err := job.AtomRef(at)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ref)
	}
	return nil
}
