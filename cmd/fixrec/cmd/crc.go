package cmd

import (
	"fmt"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"
)

var crcCmd = &cobra.Command{
	Use:   "crc",
	Short: "Print CRC-32 and xxhash64 of the buffer file",
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := openBuffer(cmd)
		if err != nil {
			return err
		}
		defer buf.Close()

		fmt.Printf("crc32=%08x xxhash64=%016x (%d bytes)\n",
			crc32.ChecksumIEEE(buf.Bytes()), xxhash.Sum64(buf.Bytes()), buf.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crcCmd)
}
