package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Загрузить профили из YAML файла",
	Long: `Загружает профили из YAML файла в хранилище.

Профиль с уже существующим telegram_id пропускается, поэтому команду можно
запускать повторно.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "configs/demo_profiles.yaml", "YAML файл с профилями")
	rootCmd.AddCommand(seedCmd)
}

// seedDocument - формат файла с профилями
type seedDocument struct {
	Profiles []models.UserProfile `yaml:"profiles"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(seedFile)
	if err != nil {
		return fmt.Errorf("не удалось открыть %s: %w", seedFile, err)
	}
	defer f.Close()

	profiles, err := parseSeed(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stores, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer stores.Close()

	created, skipped, err := seedProfiles(ctx, stores.Profiles, profiles)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Загружено профилей: %d, пропущено: %d\n", created, skipped)
	return nil
}

// parseSeed читает и проверяет профили из YAML
func parseSeed(r io.Reader) ([]models.UserProfile, error) {
	var doc seedDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("ошибка разбора YAML: %w", err)
	}

	for i := range doc.Profiles {
		p := &doc.Profiles[i]
		if p.DisplayName == "" {
			return nil, fmt.Errorf("профиль #%d: не указано display_name", i+1)
		}
		if p.Availability == "" {
			p.Availability = models.AvailabilityFlexible
		}
		a, ok := models.ParseAvailability(string(p.Availability))
		if !ok {
			return nil, fmt.Errorf("профиль %q: неизвестная доступность %q", p.DisplayName, p.Availability)
		}
		p.Availability = a
	}
	return doc.Profiles, nil
}

// seedProfiles создает профили, которых ещё нет в хранилище
func seedProfiles(ctx context.Context, store profile.Store, profiles []models.UserProfile) (created, skipped int, err error) {
	for _, p := range profiles {
		if p.TelegramID != 0 {
			_, err := store.GetByTelegramID(ctx, p.TelegramID)
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, profile.ErrNotFound) {
				return created, skipped, err
			}
		}

		if _, err := store.Create(ctx, p); err != nil {
			if errors.Is(err, profile.ErrAlreadyExists) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("ошибка создания профиля %q: %w", p.DisplayName, err)
		}
		created++
	}
	return created, skipped, nil
}
