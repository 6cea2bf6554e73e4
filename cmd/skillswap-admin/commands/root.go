package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
)

// rootCmd - корневая команда администрирования
var rootCmd = &cobra.Command{
	Use:   "skillswap-admin",
	Short: "Администрирование SkillSwap API",
	Long: `skillswap-admin выполняет служебные операции над хранилищем SkillSwap:
загрузку демонстрационных профилей и просмотр зарегистрированных пользователей.

Подключение берётся из тех же переменных окружения (.env), что и у API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute запускает корневую команду
func Execute() error {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return err
	}
	return nil
}

// openStores открывает хранилища по конфигурации из окружения
func openStores(ctx context.Context) (*storage.Stores, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.StorageDriver == config.StorageDriverMemory {
		fmt.Fprintln(os.Stderr, "⚠️ STORAGE_DRIVER=memory: изменения пропадут после выхода")
	}
	return storage.Open(ctx, cfg)
}
