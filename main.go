package main

import (
	"os"

	"github.com/domagalski/mpu-6050-test/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
