package flags

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindCommandToViper binds the flags of cmd to viper so values can come from
// the environment or the config file when not set on the command line.
func BindCommandToViper(cmd *cobra.Command) {
	BindFlagsToViper(viper.GetViper(), cmd.PersistentFlags())
	BindFlagsToViper(viper.GetViper(), cmd.Flags())
}

// BindFlagsToViper binds every flag in fs to v.
func BindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(flag *pflag.Flag) {
		_ = v.BindPFlag(flag.Name, flag)
		_ = v.BindEnv(flag.Name)

		if !flag.Changed && v.IsSet(flag.Name) {
			val := v.Get(flag.Name)
			_ = fs.Set(flag.Name, fmt.Sprintf("%v", val))
		}
	})
}
