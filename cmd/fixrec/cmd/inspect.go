package cmd

import (
	"fmt"

	"github.com/fixrec/fixrec"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Walk record slots and print their headers",
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := openBuffer(cmd)
		if err != nil {
			return err
		}
		defer buf.Close()

		// Each slot's header carries its own bodyLength, so the walk needs
		// no schema: advance by bodyLength plus the slot padding byte. An
		// unwritten slot reads bodyLength 0 and ends the walk.
		var n int
		for off := 0; off+8 <= buf.Len(); {
			bodyLength := int(buf.Int32At(off + 4))
			if bodyLength < 8 || off+bodyLength > buf.Len() {
				break
			}
			fmt.Printf("slot %d @%d: typeId=%d groupId=%d bodyLength=%d\n",
				n, off, buf.Int16At(off), buf.Int16At(off+2), bodyLength)
			n++
			off += bodyLength + fixrec.SlotPadding
		}
		fmt.Printf("%d record(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
