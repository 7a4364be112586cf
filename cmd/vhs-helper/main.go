package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"yttext/internal/config"
	"yttext/internal/demo"
)

func main() {
	cmd := &cli.Command{
		Name:  "vhs-helper",
		Usage: "VHS demo recording helper for yttext",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:8080", Usage: "address of the demo server"},
		},
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Record fetch demo (captions, formats, tracks, history)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runDemo(ctx, "fetch", cmd.String("addr"))
				},
			},
			{
				Name:  "browse",
				Usage: "Record TUI demo (paging, search, transcript)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runDemo(ctx, "browse", cmd.String("addr"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runDemo(ctx context.Context, demoName, addr string) error {
	fmt.Printf("🎬 Starting %s demo generation...\n", demoName)

	if err := buildYttext(); err != nil {
		return fmt.Errorf("failed to build yttext: %w", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("demo server failed to listen: %w", err)
	}
	srv := &http.Server{Handler: demo.NewHandler()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Demo server stopped: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error stopping demo server: %v", err)
		}
	}()

	base := "http://" + ln.Addr().String()
	fmt.Println("⏳ Waiting for server to be ready...")
	if err := waitForServer(ctx, base, 30*time.Second); err != nil {
		return fmt.Errorf("demo server failed to start: %w", err)
	}

	fmt.Println("📝 Creating config for the demo...")
	configPath, err := createDemoConfig(base)
	if err != nil {
		return fmt.Errorf("failed to create demo config: %w", err)
	}

	tapePath := fmt.Sprintf("tapes/%s.vhs", demoName)
	if err := runVHS(tapePath, configPath); err != nil {
		return fmt.Errorf("failed to run VHS: %w", err)
	}

	if err := validateGeneratedFiles(demoName); err != nil {
		return err
	}

	fmt.Printf("✅ %s demo completed successfully!\n", demoName)
	return nil
}

func waitForServer(ctx context.Context, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				fmt.Println("✅ Demo server is ready!")
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	return fmt.Errorf("server not ready after %v", timeout)
}

func buildYttext() error {
	fmt.Println("🔧 Building yttext into tapes/...")
	return runCommand(nil, "go", "build", "-o", "tapes/yttext", "./cmd/yttext")
}

func runVHS(tapePath, configPath string) error {
	fmt.Printf("🎥 Recording VHS demo: %s\n", tapePath)
	return runCommand([]string{config.EnvConfigPath + "=" + configPath}, "vhs", tapePath)
}

func validateGeneratedFiles(demoName string) error {
	fmt.Println("🔍 Validating generated files...")

	gifPath := fmt.Sprintf("tapes/%s.gif", demoName)
	asciiPath := fmt.Sprintf("tapes/%s.ascii", demoName)

	if _, err := os.Stat(gifPath); os.IsNotExist(err) {
		return fmt.Errorf("❌ %s GIF not generated", demoName)
	}
	if _, err := os.Stat(asciiPath); os.IsNotExist(err) {
		return fmt.Errorf("❌ %s ASCII file not generated", demoName)
	}

	fmt.Printf("✅ %s files generated successfully:\n", demoName)
	fmt.Printf("   📹 %s\n", gifPath)
	fmt.Printf("   📄 %s\n", asciiPath)

	return nil
}

func runCommand(env []string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return cmd.Run()
}

// createDemoConfig writes a throwaway config pointing yttext at the demo server.
func createDemoConfig(base string) (string, error) {
	dir, err := os.MkdirTemp("", "yttext-demo-")
	if err != nil {
		return "", err
	}

	ac := config.Default()
	ac.Language = "en"
	ac.YouTube.WatchURL = demo.WatchURLFormat(base)
	ac.Database.Path = filepath.Join(dir, "yttext.db")

	path := filepath.Join(dir, "config.yaml")
	if err := config.WriteConfig(path, ac); err != nil {
		return "", err
	}

	fmt.Printf("✅ Created config file at: %s\n", path)
	return path, nil
}
