/*
 * assemble.go, part of goMol.
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
	"text/tabwriter"

	"github.com/spf13/cobra"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/biounit"
	"github.com/rmera/gomol/internal/job"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble JOB.yaml",
	Short: "Build the assembly described in a job file",
	Long: `Builds the source structure described in JOB.yaml, applies the job's
transforms to it, and prints a summary of the resulting assembly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		optsFile, _ := cmd.Flags().GetString("options")
		noShift, _ := cmd.Flags().GetBool("no-shift")
		return runAssemble(cmd.OutOrStdout(), logger(cmd), args[0], optsFile, noShift)
	},
}

func init() {
	assembleCmd.Flags().String("options", "", "YAML file with builder options, replacing those in the job")
	assembleCmd.Flags().Bool("no-shift", false, "Don't translate assemblies with out-of-range coordinates")
	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(w io.Writer, logger *slog.Logger, jobFile, optsFile string, noShift bool) error {
	J, err := job.ReadFile(jobFile)
	if err != nil {
		return err
	}
	opts := J.Options
	if optsFile != "" {
		if opts, err = biounit.ReadOptionsFile(optsFile); err != nil {
			return err
		}
	}
	if noShift {
		opts.ShiftToFit(false)
	}
	src, err := J.Build(logger)
	if err != nil {
		return fmt.Errorf("building %s: %w", J.Name, err)
	}
	tfs, err := J.TransformList()
	if err != nil {
		return err
	}
	B := biounit.New(opts, biounit.WithLogger(logger), biounit.WithName(J.Name+"_biounit"))
	if err := B.Add(src, tfs, J.Sequences); err != nil {
		return err
	}
	shifted := B.NeedsAdjustment() && opts.ShiftToFit()
	ent, err := B.Finish()
	if err != nil {
		return err
	}
	if err := summary(w, ent); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nbonds: %d  torsions: %d  transforms: %d  shifted: %t\n", ent.BondCount(), len(ent.Torsions()), len(tfs), shifted)
	return nil
}

//summary writes a table with the chains of ent.
func summary(w io.Writer, ent *mol.Entity) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAIN\tTYPE\tRESIDUES\tATOMS\tORIGINAL")
	for _, ch := range ent.Chains() {
		name, err := ch.Name()
		if err != nil {
			return err
		}
		t, _ := ch.Type()
		nres, _ := ch.ResidueCount()
		nat, _ := ch.AtomCount()
		orig, _, _ := ch.Prop("original_name")
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", name, t, nres, nat, orig)
	}
	return tw.Flush()
}
