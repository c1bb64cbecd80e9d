package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/nestinghomes/nestinghomes-web/internal/leads"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

const recordVersion = "1.0"

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store keeps a copy of every lead in S3. If bucket is empty, all operations are no-ops.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
	now      func() time.Time
}

func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger, now: time.Now}
}

// Enabled returns true if archival is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

func (s *Store) Name() string { return "archive" }

// LeadCreated archives the lead and appends it to the monthly manifest.
func (s *Store) LeadCreated(ctx context.Context, lead *leads.Lead) error {
	if !s.Enabled() || lead == nil {
		return nil
	}
	_, err := s.ArchiveLead(ctx, lead)
	return err
}

// ArchiveLead writes the lead as JSON under leads/v1/by-date and returns its key.
func (s *Store) ArchiveLead(ctx context.Context, lead *leads.Lead) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	day := lead.CreatedAt.UTC()
	if day.IsZero() {
		day = s.now().UTC()
	}
	record := LeadRecord{
		Version:    recordVersion,
		LeadID:     lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Address:    lead.Address,
		Message:    lead.Message,
		Source:     lead.Source,
		CreatedAt:  lead.CreatedAt,
		ArchivedAt: s.now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("archive: marshal lead: %w", err)
	}

	key := LeadKey(day, lead.ID)
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: s3 put %s: %w", key, err)
	}
	s.logger.Info("archived lead to S3", "lead_id", lead.ID, "s3_key", key)

	entry := ManifestEntry{
		LeadID:     lead.ID,
		S3Key:      key,
		Source:     lead.Source,
		EmailHash:  HashContact(lead.Email),
		HasPhone:   strings.TrimSpace(lead.Phone) != "",
		HasAddress: strings.TrimSpace(lead.Address) != "",
		Preview:    Preview(lead.Message),
		ArchivedAt: record.ArchivedAt.Format(time.RFC3339),
	}
	if err := s.AppendManifest(ctx, entry); err != nil {
		// the lead itself is already archived
		s.logger.Warn("failed to append manifest", "error", err, "lead_id", lead.ID)
	}
	return key, nil
}

// LeadKey is the S3 object key for a lead archived on day.
func LeadKey(day time.Time, leadID string) string {
	return fmt.Sprintf("leads/v1/by-date/%d/%02d/%02d/%s.json", day.Year(), day.Month(), day.Day(), leadID)
}

// AppendManifest appends a JSONL line to the monthly manifest file.
// S3 has no append, so this is a read-modify-write.
func (s *Store) AppendManifest(ctx context.Context, entry ManifestEntry) error {
	if !s.Enabled() {
		return nil
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("archive: marshal manifest entry: %w", err)
	}

	now := s.now().UTC()
	manifestKey := fmt.Sprintf("leads/v1/manifests/%d-%02d.jsonl", now.Year(), now.Month())

	var existing []byte
	getResp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(manifestKey),
	})
	switch {
	case err == nil:
		existing, err = io.ReadAll(getResp.Body)
		getResp.Body.Close()
		if err != nil {
			return fmt.Errorf("archive: read manifest: %w", err)
		}
	case isNotFound(err):
		s.logger.Debug("manifest not found, creating new", "key", manifestKey)
	default:
		return fmt.Errorf("archive: s3 get manifest: %w", err)
	}

	var buf bytes.Buffer
	if len(existing) > 0 {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.Write(line)
	buf.WriteByte('\n')

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(manifestKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put manifest: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var notFound *s3types.NotFound
	return errors.As(err, &notFound)
}
