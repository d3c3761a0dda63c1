package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"survey-admin/config"
	"survey-admin/models"
	"survey-admin/providers/pubmed"
	"survey-admin/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxPDFBytes ist die Obergrenze für einen einzelnen Upload.
const MaxPDFBytes = 25 << 20 // 25 MB

var pdfMagic = []byte("%PDF-")

// ErrNotAPDF wird für Uploads zurückgegeben, die keine PDF-Datei sind.
var ErrNotAPDF = fmt.Errorf("uploaded file is not a PDF")

// ErrDuplicatePMID wird zurückgegeben, wenn bereits ein Dokument mit der
// PMID existiert.
var ErrDuplicatePMID = fmt.Errorf("a document with this PMID already exists")

// PDFService verwaltet die Referenz-PDFs: Upload nach S3, Auflistung und
// Löschung über die PMID.
type PDFService struct {
	Config   *config.Config
	DB       *gorm.DB
	S3Client *s3.Client
	Logger   *zap.Logger
	PubMed   *pubmed.Fetcher
}

// NewPDFService erstellt eine neue Instanz des PDFService.
func NewPDFService(cfg *config.Config, db *gorm.DB, s3c *s3.Client, logger *zap.Logger, pm *pubmed.Fetcher) *PDFService {
	return &PDFService{Config: cfg, DB: db, S3Client: s3c, Logger: logger, PubMed: pm}
}

// Upload prüft und speichert ein hochgeladenes PDF. Die PMID ist optional;
// mit PMID wird der Objektschlüssel stabil aus ihr abgeleitet und der
// Studientitel best-effort über PubMed angereichert.
func (p *PDFService) Upload(ctx context.Context, data []byte, fileName, pmid string) (*models.PdfDocument, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrNotAPDF
	}
	if len(data) > MaxPDFBytes {
		return nil, fmt.Errorf("file exceeds the %d MB upload limit", MaxPDFBytes>>20)
	}

	pmid = strings.TrimSpace(pmid)
	log := p.Logger.With(zap.String("pmid", pmid), zap.String("file_name", fileName))

	var key string
	doc := models.PdfDocument{
		FileName:  fileName,
		SizeBytes: int64(len(data)),
		FileSize:  FormatFileSize(int64(len(data))),
	}
	if pmid != "" {
		var count int64
		if err := p.DB.Model(&models.PdfDocument{}).Where("pmid = ?", pmid).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicatePMID
		}
		doc.PMID = &pmid
		key = pmid + ".pdf"
	} else {
		key = uuid.New().String() + ".pdf"
	}
	doc.S3Key = key

	log.Info("Lade PDF nach S3 hoch", zap.String("key", key))
	link, err := storage.UploadFile(ctx, p.S3Client, p.Config.StratoS3Bucket, key, data, p.Config)
	if err != nil {
		log.Error("S3-Upload fehlgeschlagen", zap.Error(err))
		return nil, err
	}
	doc.S3Link = link

	if pmid != "" {
		// Titel-Anreicherung darf den Upload nicht scheitern lassen.
		titleCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if title, err := p.PubMed.FetchTitle(titleCtx, pmid); err != nil {
			log.Warn("PubMed-Titelabfrage fehlgeschlagen", zap.Error(err))
		} else {
			doc.Title = title
		}
	}

	if err := p.DB.Create(&doc).Error; err != nil {
		log.Error("Konnte PDF-Dokument nicht speichern", zap.Error(err))
		return nil, err
	}

	log.Info("PDF erfolgreich verarbeitet.", zap.Uint("id", doc.ID))
	return &doc, nil
}

// List liefert alle Dokumente, neueste zuerst.
func (p *PDFService) List(ctx context.Context) ([]models.PdfDocument, error) {
	var docs []models.PdfDocument
	if err := p.DB.WithContext(ctx).Order("uploaded_at desc").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteByPMID entfernt das Dokument mit der PMID aus S3 und der Datenbank.
// Dokumente ohne PMID sind über diesen Weg bewusst nicht erreichbar.
func (p *PDFService) DeleteByPMID(ctx context.Context, pmid string) error {
	var doc models.PdfDocument
	if err := p.DB.WithContext(ctx).Where("pmid = ?", pmid).First(&doc).Error; err != nil {
		return err
	}

	log := p.Logger.With(zap.String("pmid", pmid), zap.String("key", doc.S3Key))
	if err := storage.DeleteFile(ctx, p.S3Client, p.Config.StratoS3Bucket, doc.S3Key); err != nil {
		// Objekt bleibt verwaist im Bucket zurück; der Datensatz wird
		// trotzdem entfernt, damit das Dashboard konsistent bleibt.
		log.Error("S3-Löschung fehlgeschlagen", zap.Error(err))
	}

	if err := p.DB.WithContext(ctx).Delete(&doc).Error; err != nil {
		log.Error("Konnte PDF-Datensatz nicht löschen", zap.Error(err))
		return err
	}

	log.Info("PDF gelöscht.")
	return nil
}

// FormatFileSize rendert eine Byte-Anzahl menschlich lesbar, so wie die
// Listenansicht sie anzeigt.
func FormatFileSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
