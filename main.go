package main

import "github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/cmd"

// TODO: stream retained sweeps to a trace file so long runs can be
//       inspected before they finish

func main() {
	cmd.Execute()
}
