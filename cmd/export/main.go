package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trust-monitor/config"
	"trust-monitor/models"
	"trust-monitor/storage"
)

// snapshot ist das Export-Format: aktueller Stand aller Scores plus Historie.
type snapshot struct {
	ExportedAt  time.Time             `json:"exported_at"`
	Influencers []models.Influencer   `json:"influencers"`
	Scores      []models.TrustScore   `json:"scores"`
	History     []models.ScoreHistory `json:"history"`
}

func main() {
	log.Println("Starte Score-Export...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}
	if cfg.ExportS3Bucket == "" {
		log.Fatal("EXPORT_S3_BUCKET ist nicht gesetzt.")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Fehler bei der Datenbank-Verbindung: %v", err)
	}

	data, err := buildSnapshot(db)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des Snapshots: %v", err)
	}

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		log.Fatalf("Fehler beim Erstellen des S3-Clients: %v", err)
	}

	fileName := fmt.Sprintf("scores-%s.json.gz", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	link, err := storage.UploadFile(s3Client, cfg.ExportS3Bucket, fileName, data, cfg)
	if err != nil {
		log.Fatalf("Fehler beim Hochladen nach S3: %v", err)
	}
	log.Printf("Export erfolgreich hochgeladen: %s", link)

	if err := rotateExports(s3Client, cfg); err != nil {
		log.Fatalf("Fehler bei der Rotation alter Exporte: %v", err)
	}

	log.Println("Score-Export erfolgreich abgeschlossen.")
}

func buildSnapshot(db *gorm.DB) ([]byte, error) {
	snap := snapshot{ExportedAt: time.Now().UTC()}

	if err := db.Order("trust_score desc").Find(&snap.Influencers).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.Scores).Error; err != nil {
		return nil, err
	}
	if err := db.Order("analyzed_at desc").Find(&snap.History).Error; err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gzipWriter).Encode(snap); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rotateExports(client *s3.Client, cfg *config.Config) error {
	output, err := client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(cfg.ExportS3Bucket),
	})
	if err != nil {
		return err
	}

	if len(output.Contents) <= cfg.KeepExports {
		log.Printf("Weniger als %d Exporte vorhanden, keine Rotation nötig.", cfg.KeepExports)
		return nil
	}

	sort.Slice(output.Contents, func(i, j int) bool {
		return output.Contents[i].LastModified.After(*output.Contents[j].LastModified)
	})

	for _, obj := range output.Contents[cfg.KeepExports:] {
		log.Printf("Lösche alten Export: %s", *obj.Key)
		_, err := client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
			Bucket: aws.String(cfg.ExportS3Bucket),
			Key:    obj.Key,
		})
		if err != nil {
			log.Printf("Fehler beim Löschen von %s: %v", *obj.Key, err)
		}
	}

	return nil
}
