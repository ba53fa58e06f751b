// Command devwatch restarts the bot whenever a Go source file changes.
// Development tool only.
package main

import (
	"io/fs"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

var ignoreDirs = []string{".git", "vendor", "testdata"}

func main() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, "."); err != nil {
		log.Fatalf("Failed to watch source tree: %v", err)
	}

	process := startBot()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Editors fire several events per save; coalesce them.
	var restartAt time.Time
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !shouldRestart(event) {
				continue
			}
			log.Printf("[INFO] Detected change in %s", event.Name)
			restartAt = time.Now().Add(300 * time.Millisecond)
			debounce.Reset(300 * time.Millisecond)
		case <-debounce.C:
			if time.Now().Before(restartAt) {
				continue
			}
			stopBot(process)
			process = startBot()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ERROR] Watcher error: %v", err)
		case <-interrupt:
			log.Printf("[INFO] Development watcher stopping...")
			stopBot(process)
			return
		}
	}
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		for _, ignore := range ignoreDirs {
			if d.Name() == ignore {
				return filepath.SkipDir
			}
		}
		log.Printf("[INFO] Watching directory: %s", path)
		return watcher.Add(path)
	})
}

func shouldRestart(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !strings.HasSuffix(event.Name, ".go") {
		return false
	}
	for _, ignore := range ignoreDirs {
		if strings.Contains(event.Name, string(filepath.Separator)+ignore+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

func startBot() *exec.Cmd {
	log.Printf("[INFO] Starting the bot process...")
	cmd := exec.Command("go", "run", "./cmd/bot")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start bot process: %v", err)
	}
	return cmd
}

func stopBot(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	log.Printf("[INFO] Stopping the bot process...")

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return
	}

	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		cmd.Process.Kill()
		<-done
	}
}
