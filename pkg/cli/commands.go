package cli

import (
	"bufio"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrew-torda/bsi_collect/pkg/collector"
	"github.com/andrew-torda/bsi_collect/pkg/fetch"
	"github.com/andrew-torda/bsi_collect/pkg/reads"
	"github.com/andrew-torda/bsi_collect/pkg/sample"
)

var errFailed = errors.New("some samples could not be fetched")

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count blood and FMT samples per patient",
		Args:  usageArgs(cobra.NoArgs),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			patients, m := reg.Tally()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "patient\tblood\tfmt")
			for i, p := range patients {
				fmt.Fprintf(w, "%s\t%d\t%d\n", p,
					int(m.Mat[i][collector.BloodCol]), int(m.Mat[i][collector.FMTCol]))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "capsules: %d\n", len(reg.Capsules()))
			fmt.Fprintf(out, "unresolved: %d\n", len(reg.Unresolved()))
			return nil
		}),
	}
}

func (a *app) patientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patients",
		Short: "List patients in the order they first appear",
		Args:  usageArgs(cobra.NoArgs),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			for _, p := range reg.Patients() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		}),
	}
}

func (a *app) fetchCmd() *cobra.Command {
	var (
		patients []string
		capsules bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and decompress sample files which are not yet local",
		Long: `fetch makes sure the files of the chosen samples are on local disk.
With no --patient and no --capsules, every classified sample is fetched.
One failing sample does not stop the others.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			chosen, err := choose(reg, patients, capsules)
			if err != nil {
				return err
			}
			ens, err := a.ensurer(cmd.Context())
			if err != nil {
				return err
			}
			// the joined error repeats what the outcomes say
			outcomes, _ := ens.EnsureLocalAll(cmd.Context(), chosen)
			nFail := 0
			out := cmd.OutOrStdout()
			for _, o := range outcomes {
				if o.Err != nil {
					nFail++
					fmt.Fprintf(out, "%s\tfailed\t%v\n", o.Sample.ID(), o.Err)
					continue
				}
				fmt.Fprintf(out, "%s\tok\t%s\n", o.Sample.ID(), o.Dir)
			}
			if nFail != 0 {
				a.logger.Error("fetch incomplete", zap.Int("failed", nFail), zap.Int("samples", len(outcomes)))
				return fmt.Errorf("%w: %d of %d", errFailed, nFail, len(outcomes))
			}
			return nil
		}),
	}
	cmd.Flags().StringSliceVarP(&patients, "patient", "p", nil, "fetch blood and FMT samples of this patient, may be repeated")
	cmd.Flags().BoolVar(&capsules, "capsules", false, "fetch capsule samples")
	return cmd
}

// choose picks samples for fetch. No selection means everything.
func choose(reg *collector.Registry, patients []string, capsules bool) ([]*sample.BSISample, error) {
	all := len(patients) == 0 && !capsules
	if all {
		patients = reg.Patients()
	}
	var chosen []*sample.BSISample
	known := make(map[string]bool)
	for _, p := range reg.Patients() {
		known[p] = true
	}
	for _, p := range patients {
		if !known[p] {
			return nil, fmt.Errorf("no patient %q in report", p)
		}
		chosen = append(chosen, reg.Blood(p)...)
		chosen = append(chosen, reg.FMT(p)...)
	}
	if all || capsules {
		chosen = append(chosen, reg.Capsules()...)
	}
	return chosen, nil
}

func (a *app) find(accession string) (*sample.BSISample, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	b, ok := reg.Find(accession)
	if !ok {
		return nil, fmt.Errorf("no classified sample %q in report", accession)
	}
	return b, nil
}

func (a *app) readsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reads <accession>",
		Short: "Print the reads of a sample as id, sequence and quality, tab separated",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			b, err := a.find(args[0])
			if err != nil {
				return err
			}
			ens, err := a.ensurer(cmd.Context())
			if err != nil {
				return err
			}
			dec := &reads.Decoder{Ensurer: ens, Logger: a.logger, Metrics: a.metrics}
			w := bufio.NewWriter(cmd.OutOrStdout())
			for rd, err := range dec.Reads(cmd.Context(), b) {
				if err != nil {
					w.Flush()
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", rd.ID(), rd.Seq(), rd.Qual())
			}
			return w.Flush()
		}),
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <accession>",
		Short: "Count lines and records in the local files of a sample",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			b, err := a.find(args[0])
			if err != nil {
				return err
			}
			// same directory fetch and reads use
			dir, err := (&fetch.Ensurer{Root: a.cfg.DataRoot}).Dir(b)
			if err != nil {
				return err
			}
			local, err := b.ExistingLocalFiles(dir)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "file\tlines\trecords\ttrailing")
			for fname := range local {
				shp, err := reads.Check(fname)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", fname, shp.Lines, shp.Records, shp.Trailing)
				if shp.Short() {
					a.logger.Warn("file ends part way through a record", zap.String("file", fname))
				}
			}
			return w.Flush()
		}),
	}
}
