// Completion: 100% - CLI complete, all flags working
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// An optimizing interpreter and x86_64 JIT for the eight-instruction
// byte-tape language

const versionString = "bf67 1.0.0"

// VerboseMode enables progress lines and the instruction listing on stderr.
// Can also be enabled with BF67_VERBOSE=1.
var VerboseMode bool

func usage() {
	fmt.Fprintf(os.Stderr, "usage: bf67 [-o|--optimize] [-i|--interpreter] [-v|--verbose] [-V|--version] FILE\n")
	flag.PrintDefaults()
}

func main() {
	var optimizeFlag = flag.Bool("o", false, "optimize the program before executing")
	var optimizeLong = flag.Bool("optimize", false, "optimize the program before executing")
	var interpFlag = flag.Bool("i", false, "use the interpreter backend instead of the JIT")
	var interpLong = flag.Bool("interpreter", false, "use the interpreter backend instead of the JIT")
	var verbose = flag.Bool("v", false, "verbose mode (show phases and the instruction listing)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (show phases and the instruction listing)")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	flag.Usage = usage
	flag.Parse()

	if *versionShort || *version {
		fmt.Println(versionString)
		os.Exit(0)
	}

	VerboseMode = *verbose || *verboseLong || env.Bool("BF67_VERBOSE")

	if flag.NArg() != 1 {
		usage()
		os.Exit(exitUsage)
	}
	sourceFile := flag.Arg(0)

	data, err := os.ReadFile(sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf67: %v\n", err)
		os.Exit(exitUsage)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "source file: %s\n", sourceFile)
	}

	prog, err := CompileSource(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf67: %s: %v\n", sourceFile, err)
		os.Exit(exitCodeFor(err))
	}

	if *optimizeFlag || *optimizeLong {
		before := len(prog)
		prog = optimizeProgram(prog)
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "-> Optimizer: %d -> %d instructions\n", before, len(prog))
		}
	}
	if VerboseMode {
		fmt.Fprint(os.Stderr, prog)
	}

	if *interpFlag || *interpLong {
		if VerboseMode {
			fmt.Fprintln(os.Stderr, "-> Interpreter backend")
		}
		err = NewInterpreter(prog, os.Stdin, os.Stdout).Run()
	} else {
		if VerboseMode {
			fmt.Fprintln(os.Stderr, "-> JIT backend")
		}
		memSize := env.Int("BF67_MEMORY", defaultMemSize)
		err = NewJIT(prog, int(os.Stdin.Fd()), int(os.Stdout.Fd()), memSize).Run()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bf67: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}
