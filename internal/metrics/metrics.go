/*
 * metrics.go, part of goMol.
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

//Package metrics holds the Prometheus collectors of goMol. They are
//registered in the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gomol"

var (
	//EditOperations counts editor operations by name.
	EditOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edit_operations_total",
		Help:      "Editor operations applied, by operation",
	}, []string{"op"})

	//TraceRecomputations counts trace recomputations by the edit mode that
	//triggered them.
	TraceRecomputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trace_recomputations_total",
		Help:      "Trace/directionality recomputations, by edit mode",
	}, []string{"mode"})

	TraceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "trace_duration_seconds",
		Help:      "Time spent recomputing the trace",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	})

	//BiounitChains counts the chains copied into assemblies, by class
	//(polymer, water, ligand).
	BiounitChains = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "biounit",
		Name:      "chains_total",
		Help:      "Source chains copied into assemblies, by class",
	}, []string{"class"})

	BiounitShifts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "biounit",
		Name:      "shifts_total",
		Help:      "Assemblies translated to fit fixed-width coordinate formats",
	})
)
