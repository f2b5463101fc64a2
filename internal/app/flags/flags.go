// Package flags implements a small cobra flag-registration helper, the
// same shape the reference nimble application binds its own env-backed
// settings through (env, log level, ports, resource caps), kept here
// since the vendor's own top-level internal package that offers it is
// not part of this module's vendored dependency surface.
package flags

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Flag binds a single command-line flag to a string, int, or bool target,
// pre-populated from an environment variable when one is set.
type Flag struct {
	Name    string
	Usage   string
	EnvVar  string
	Target  interface{} // *string, *int, or *bool
	Default interface{}
}

// RegisterCommandFlags registers every flag against cmd's flag set,
// seeding each target from its EnvVar (if set) before cobra parses the
// command line, so flags silently override the environment rather than
// the other way around.
func RegisterCommandFlags(cmd *cobra.Command, fs []*Flag) error {
	for _, f := range fs {
		if f.EnvVar != "" {
			if raw, ok := os.LookupEnv(f.EnvVar); ok {
				if err := assignFromEnv(f, raw); err != nil {
					return errors.Wrapf(err, "assign env var %s to flag %s", f.EnvVar, f.Name)
				}
			}
		}
		if err := bind(cmd, f); err != nil {
			return errors.Wrapf(err, "bind flag %s", f.Name)
		}
	}
	return nil
}

func assignFromEnv(f *Flag, raw string) error {
	switch target := f.Target.(type) {
	case *string:
		*target = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return errors.Wrap(err, "parse int")
		}
		*target = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.Wrap(err, "parse bool")
		}
		*target = v
	default:
		return errors.New("unsupported flag target type")
	}
	return nil
}

func bind(cmd *cobra.Command, f *Flag) error {
	switch target := f.Target.(type) {
	case *string:
		def, _ := f.Default.(string)
		if *target != "" {
			def = *target
		}
		cmd.PersistentFlags().StringVar(target, f.Name, def, f.Usage)
	case *int:
		def, _ := f.Default.(int)
		if *target != 0 {
			def = *target
		}
		cmd.PersistentFlags().IntVar(target, f.Name, def, f.Usage)
	case *bool:
		def, _ := f.Default.(bool)
		cmd.PersistentFlags().BoolVar(target, f.Name, def, f.Usage)
	default:
		return errors.New("unsupported flag target type")
	}
	return nil
}
