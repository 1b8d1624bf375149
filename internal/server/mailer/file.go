package mailer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/yamdb/yamdb/internal/filex"
)

// FileMailer writes each message to its own .eml file under dir.
type FileMailer struct {
	dir  string
	from string
}

func NewFileMailer(dir, from string) *FileMailer {
	return &FileMailer{dir: dir, from: from}
}

func (f *FileMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := buildMsg(f.from, msg)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureDir(f.dir)
	if err != nil {
		return fmt.Errorf("mail dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.eml", time.Now().UTC().Format("20060102-150405"), uuid.NewString())
	if err := m.WriteToFile(filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
