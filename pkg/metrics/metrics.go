// Package metrics counts the things that would otherwise go by
// silently: rows we could not place, files that would not download,
// records dropped from the end of a file.
// A nil *Set is valid and counts nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bsi"

// Set is a group of counters with its own registry.
type Set struct {
	reg         *prometheus.Registry
	Samples     *prometheus.CounterVec // by type
	Unresolved  prometheus.Counter
	Fetches     prometheus.Counter
	FetchFails  *prometheus.CounterVec // by kind: fetch or decompress
	Reads       prometheus.Counter
	PartialRead prometheus.Counter // trailing partial records dropped
}

// New makes a Set and registers everything in it.
func New() *Set {
	s := &Set{
		reg: prometheus.NewRegistry(),
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "samples_total",
			Help: "Report rows placed in the registry, by sample type.",
		}, []string{"type"}),
		Unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "samples_unresolved_total",
			Help: "Report rows with no accession or no recognised type.",
		}),
		Fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "fetch_attempts_total",
			Help: "Remote files we tried to fetch.",
		}),
		FetchFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "fetch_failures_total",
			Help: "Files which did not end up on local disk, by stage.",
		}, []string{"kind"}),
		Reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "reads_total",
			Help: "Complete reads decoded.",
		}),
		PartialRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "partial_records_dropped_total",
			Help: "Files whose last record had fewer than four lines.",
		}),
	}
	s.reg.MustRegister(s.Samples, s.Unresolved, s.Fetches, s.FetchFails, s.Reads, s.PartialRead)
	return s
}

// Kinds of fetch failure
const (
	KindFetch      = "fetch"
	KindDecompress = "decompress"
)

func (s *Set) Sample(typ string) {
	if s != nil {
		s.Samples.WithLabelValues(typ).Inc()
	}
}

func (s *Set) Unresolve() {
	if s != nil {
		s.Unresolved.Inc()
	}
}

func (s *Set) Fetch() {
	if s != nil {
		s.Fetches.Inc()
	}
}

func (s *Set) FetchFail(kind string) {
	if s != nil {
		s.FetchFails.WithLabelValues(kind).Inc()
	}
}

func (s *Set) Read() {
	if s != nil {
		s.Reads.Inc()
	}
}

func (s *Set) Partial() {
	if s != nil {
		s.PartialRead.Inc()
	}
}

// Registry is for anyone who wants to gather the counters themselves.
func (s *Set) Registry() *prometheus.Registry { return s.reg }

// WriteTextfile writes everything in the text exposition format,
// for the node exporter's textfile collector.
func (s *Set) WriteTextfile(fname string) error {
	if s == nil {
		return nil
	}
	return prometheus.WriteToTextfile(fname, s.reg)
}
