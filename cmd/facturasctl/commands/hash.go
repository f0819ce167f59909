package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var hashCost int

var hashCmd = &cobra.Command{
	Use:   "hash PASSWORD",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := bcrypt.GenerateFromPassword([]byte(args[0]), hashCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(h))
		return nil
	},
}

func init() {
	hashCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost")
	rootCmd.AddCommand(hashCmd)
}
