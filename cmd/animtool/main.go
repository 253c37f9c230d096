// animtool is a CLI utility for inspecting and compressing animation
// clips.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/animpack/internal/config"
	"github.com/Faultbox/animpack/internal/logger"
	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/compress"
	"github.com/Faultbox/animpack/pkg/decode"
	"github.com/Faultbox/animpack/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "compress", "c":
		cmdCompress(args)
	case "sample":
		cmdSample(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`animtool - animation clip compression utility

Usage:
  animtool <command> [options]

Commands:
  info <clip.apkc>       Show clip and skeleton information
  compress <clip.apkc>   Quantize the clip's tracks and print a summary
  sample <clip.apkc>     Decode a pose at a given time and print it
  init-config            Write a default config.yaml to the config directory

Examples:
  animtool info run_cycle.apkc
  animtool compress -threshold 0.01 run_cycle.apkc
  animtool compress -rotation-format quatdropw_48 run_cycle.apkc
  animtool sample -t 0.5 run_cycle.apkc`)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	showBones := fs.Bool("bones", false, "List every bone")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: animtool info <clip.apkc>")
		os.Exit(1)
	}

	file, err := formats.ParseClipFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	clip := file.Clip
	fmt.Printf("Clip:      %s\n", fs.Arg(0))
	fmt.Printf("Version:   %s\n", file.Version)
	fmt.Printf("Bones:     %d\n", clip.NumBones())
	fmt.Printf("Samples:   %d @ %.1f Hz (%.2fs)\n", clip.NumSamples(), clip.SampleRate(), clip.Duration())
	fmt.Printf("Threshold: %g\n", clip.ErrorThreshold())

	if *showBones {
		fmt.Println()
		for i := 0; i < file.Skeleton.NumBones(); i++ {
			bone := file.Skeleton.Bone(uint16(i))
			parent := "root"
			if !bone.IsRoot() {
				parent = file.Skeleton.Bone(bone.Parent).Name
			}
			fmt.Printf("  %3d %-24s parent=%-24s shell=%g\n", i, bone.Name, parent, bone.ShellDistance)
		}
	}
}

func cmdCompress(args []string) {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	rotationName := fs.String("rotation-format", "", "Rotation packing format")
	vectorName := fs.String("translation-format", "", "Translation packing format")
	threshold := fs.Float64("threshold", 0, "Error threshold override")
	verbose := fs.Bool("v", false, "Enable debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: animtool compress [options] <clip.apkc>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *rotationName != "" {
		cfg.Compression.RotationFormat = *rotationName
	}
	if *vectorName != "" {
		cfg.Compression.TranslationFormat = *vectorName
	}
	if *threshold > 0 {
		cfg.Compression.ErrorThreshold = float32(*threshold)
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	compress.SetLogger(logger.Log)

	rotationFormat, err := compress.RotationFormatFromString(cfg.Compression.RotationFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	translationFormat, err := compress.VectorFormatFromString(cfg.Compression.TranslationFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	file, err := formats.ParseClipFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	clip := file.Clip
	if cfg.Compression.ErrorThreshold > 0 {
		clip.SetErrorThreshold(cfg.Compression.ErrorThreshold)
	}

	logger.Info("compressing clip",
		zap.Stringer("rotation_format", rotationFormat),
		zap.Stringer("translation_format", translationFormat))

	streams := compress.ExtractBoneStreams(clip)
	if err := compress.QuantizeStreams(streams, rotationFormat, translationFormat, clip, file.Skeleton); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats, err := compress.CollectStats(file.Skeleton, clip, streams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printStats(&stats)
}

func cmdSample(args []string) {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	sampleTime := fs.Float64("t", 0, "Sample time in seconds")
	quantized := fs.Bool("quantized", false, "Quantize first using the configured formats")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: animtool sample [options] <clip.apkc>")
		os.Exit(1)
	}

	file, err := formats.ParseClipFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	clip := file.Clip
	streams := compress.ExtractBoneStreams(clip)

	if *quantized {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		rotationFormat, err := compress.RotationFormatFromString(cfg.Compression.RotationFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		translationFormat, err := compress.VectorFormatFromString(cfg.Compression.TranslationFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := compress.QuantizeStreams(streams, rotationFormat, translationFormat, clip, file.Skeleton); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	pose := anim.NewPose(clip.NumBones())
	if err := decode.DecodeIntoPose(streams, float32(*sampleTime), pose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pose at t=%.3fs\n", *sampleTime)
	for i, transform := range pose {
		name := file.Skeleton.Bone(uint16(i)).Name
		fmt.Printf("  %3d %-24s rot=(%.4f %.4f %.4f %.4f) pos=(%.3f %.3f %.3f) scale=(%.3f %.3f %.3f)\n",
			i, name,
			transform.Rotation.X, transform.Rotation.Y, transform.Rotation.Z, transform.Rotation.W,
			transform.Translation.X, transform.Translation.Y, transform.Translation.Z,
			transform.Scale.X, transform.Scale.Y, transform.Scale.Z)
	}
}

func printStats(stats *compress.Stats) {
	fmt.Printf("Bones:        %d (%d samples)\n", stats.NumBones, stats.NumSamples)
	fmt.Printf("Tracks:       %d rotation, %d translation, %d scale\n",
		stats.AnimatedRotationTracks, stats.AnimatedTranslationTracks, stats.AnimatedScaleTracks)
	fmt.Printf("Raw size:     %d bytes\n", stats.RawSize)
	fmt.Printf("Packed size:  %d bytes (%.2fx)\n", stats.CompressedSize, stats.Ratio())
	fmt.Printf("Error:        max=%.6f mean=%.6f stddev=%.6f median=%.6f p99=%.6f\n",
		stats.Error.Max, stats.Error.Mean, stats.Error.StdDev, stats.Error.Median, stats.Error.P99)

	hasVariable := false
	for _, count := range stats.BitRateHistogram {
		if count > 0 {
			hasVariable = true
			break
		}
	}
	if !hasVariable {
		return
	}

	fmt.Println("Bit rates:")
	for bitRate, count := range stats.BitRateHistogram {
		if count > 0 {
			fmt.Printf("  %2d bits  %d tracks\n", compress.BitsAtBitRate(uint8(bitRate)), count)
		}
	}
}

func cmdInitConfig(args []string) {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	fs.Parse(args)

	cfg := config.Default()
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", config.ConfigDir())
}
