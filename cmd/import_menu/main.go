package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"cocktailbar/internal/config"
	"cocktailbar/internal/db"
	applog "cocktailbar/internal/log"
	"cocktailbar/internal/uploads"
	"cocktailbar/models"
)

var (
	cleanWhitespace = regexp.MustCompile(`\s+`)
	headerPattern   = regexp.MustCompile(`[^a-z0-9]+`)
)

func main() {
	csvPath := "menu.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		applog.Warn(context.Background(), "failed to read .env file", "error", err)
	}

	if err := run(csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}
	defer file.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	files, err := uploads.New(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return fmt.Errorf("open upload directory: %w", err)
	}

	records, err := readCSV(file)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	imported, err := importRecords(context.Background(), database, files, records)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d cocktails from %s\n", imported, filepath.Base(csvPath))
	return nil
}

// importRecords upserts every record by cocktail name, one transaction per
// record. It stops at the first failing record. Image paths must be external
// URLs or files already in the upload directory; anything else is dropped.
func importRecords(ctx context.Context, database *gorm.DB, files *uploads.Store, records []map[string]string) (int, error) {
	if database == nil {
		return 0, fmt.Errorf("database handle is nil")
	}

	imported := 0
	for idx, record := range records {
		cocktail := buildCocktail(record)
		if cocktail.Name == "" || cocktail.Ingredients == "" {
			return imported, fmt.Errorf("record %d: name and ingredients are required", idx+1)
		}
		cocktail.ImagePath = resolveImage(ctx, files, cocktail.ImagePath)

		var released string
		err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing models.Cocktail
			err := tx.Where("name = ?", cocktail.Name).Order("id asc").First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&cocktail).Error; err != nil {
					return fmt.Errorf("create cocktail %q: %w", cocktail.Name, err)
				}
				applog.Debug(ctx, "cocktail created", "name", cocktail.Name, "id", cocktail.ID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("find cocktail %q: %w", cocktail.Name, err)
			}

			updates := map[string]any{
				"ingredients":  cocktail.Ingredients,
				"instructions": cocktail.Instructions,
				"strength":     cocktail.Strength,
				"glass_type":   cocktail.GlassType,
				"garnish":      cocktail.Garnish,
				"tags":         cocktail.Tags,
			}
			if cocktail.ImagePath != "" {
				updates["image_path"] = cocktail.ImagePath
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("update cocktail %q: %w", cocktail.Name, err)
			}
			applog.Debug(ctx, "cocktail updated", "name", cocktail.Name, "id", existing.ID)

			if cocktail.ImagePath == "" || existing.ImagePath == "" || existing.ImagePath == cocktail.ImagePath {
				return nil
			}
			shared, err := db.NewStore(tx).CountImageReferences(ctx, existing.ImagePath, existing.ID)
			if err != nil {
				return fmt.Errorf("count references to %s: %w", existing.ImagePath, err)
			}
			if shared == 0 {
				released = existing.ImagePath
			}
			return nil
		})
		if err != nil {
			return imported, fmt.Errorf("record %d (%s): %w", idx+1, cocktail.Name, err)
		}
		if released != "" && files != nil {
			if err := files.Remove(released); err != nil {
				applog.Warn(ctx, "failed to remove replaced image", "path", released, "error", err)
			}
		}
		imported++
	}
	return imported, nil
}

// resolveImage keeps external URLs and stored uploads, normalized to their
// public path, and drops references to files that do not exist.
func resolveImage(ctx context.Context, files *uploads.Store, path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	if files == nil || !files.Exists(path) {
		applog.Warn(ctx, "ignoring image that is not in the upload directory", "path", path)
		return ""
	}
	return uploads.PublicPrefix + filepath.Base(filepath.FromSlash(path))
}

func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make([]string, len(rows[0]))
	for idx, key := range rows[0] {
		header[idx] = normalizeHeader(key)
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func buildCocktail(row map[string]string) models.Cocktail {
	return models.Cocktail{
		Name:         normalizeText(row["name"]),
		Ingredients:  normalizeText(row["ingredients"]),
		Instructions: normalizeText(row["instructions"]),
		ImagePath:    normalizeValue(row["image_path"]),
		Strength:     mapStrength(row["strength"]),
		GlassType:    normalizeValue(firstNonEmpty(row["glass_type"], row["glass"])),
		Garnish:      normalizeValue(row["garnish"]),
		Tags:         normalizeTags(row["tags"]),
	}
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "\ufeff")))
	return strings.Trim(headerPattern.ReplaceAllString(value, "_"), "_")
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}

func normalizeTags(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, ";", ",")
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(tag)]; ok {
			continue
		}
		seen[strings.ToLower(tag)] = struct{}{}
		tags = append(tags, tag)
	}
	return strings.Join(tags, ", ")
}

func mapStrength(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none", "non-alcoholic", "virgin", "0":
		return "none"
	case "light", "low", "1":
		return "light"
	case "medium", "2":
		return "medium"
	case "strong", "high", "3":
		return "strong"
	default:
		return normalizeValue(value)
	}
}

func isBlankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
