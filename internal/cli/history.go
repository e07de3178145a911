package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/tutor-engine/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent chat turns",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			limit, _ := cmd.Flags().GetInt("limit")

			s := openSession()
			defer s.Close()

			turns, err := s.Store.Turns(cmd.Context(), limit)
			if err != nil {
				exitErr("load history", err)
			}

			if formatFlag == "json" {
				if turns == nil {
					turns = []model.ChatTurn{}
				}
				b, _ := json.MarshalIndent(turns, "", "  ")
				fmt.Println(string(b))
				return
			}

			for _, t := range turns {
				ts := time.Unix(t.TS, 0).Format("2006-01-02 15:04")
				fmt.Printf("[%s] %s (%s)\n", ts, t.Role, t.Kind)
				printTurn(t)
			}
		},
	}

	cmd.Flags().IntP("limit", "l", 50, "Max turns")

	RootCmd.AddCommand(cmd)
}
