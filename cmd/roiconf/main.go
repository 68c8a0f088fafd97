package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"runtime"

	"github.com/ivlev/vl53l1x/internal/config"
	"github.com/ivlev/vl53l1x/internal/preview"
	"github.com/ivlev/vl53l1x/internal/roi"
	"github.com/ivlev/vl53l1x/internal/system"
)

const configDir = "configs"

func main() {
	configPtr := flag.String("config", "", "Путь к YAML-конфигу датчика (по умолчанию: самый свежий файл в configs/)")
	widthPtr := flag.Int("width", -1, "Ширина ROI в зонах (0-255, -1 - из конфига)")
	heightPtr := flag.Int("height", -1, "Высота ROI в зонах (0-255, -1 - из конфига)")
	centerPtr := flag.Int("center", -1, "Индекс центральной зоны ROI (0-255, -1 - из конфига)")
	roiPtr := flag.String("roi", "", "ROI в формате WxH@C, например 16x16@199")
	savePtr := flag.String("save", "", "Сохранить итоговый конфиг в файл")
	previewPtr := flag.String("preview", "", "Путь к PNG с сеткой зон")
	qrPtr := flag.String("qr", "", "Путь к PNG с QR-кодом конфига")
	cellPtr := flag.Int("cell", 24, "Размер зоны на превью (пиксели)")
	qrSizePtr := flag.Int("qr-size", 512, "Размер QR-кода (пиксели)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки")
	printPtr := flag.Bool("print", false, "Вывести итоговый конфиг в YAML")

	flag.Parse()

	configPath := *configPtr
	if configPath == "" {
		latest, err := system.FindLatestConfig(configDir)
		if err == nil {
			configPath = latest
			fmt.Printf("[*] Выбран конфиг: %s\n", configPath)
		} else {
			fmt.Println("[*] Конфиг не найден, используются значения по умолчанию")
		}
	}

	// Явно указанный, но отсутствующий конфиг - ошибка, а не значения по умолчанию
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения конфига: %v", err)
		}
		cfg = loaded
	}

	if *roiPtr != "" {
		r, err := roi.Parse(*roiPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		cfg.ROI = r
	}
	applyOverride("width", *widthPtr, cfg.ROI.SetWidth)
	applyOverride("height", *heightPtr, cfg.ROI.SetHeight)
	applyOverride("center", *centerPtr, cfg.ROI.SetCenter)

	for _, note := range cfg.Normalize() {
		log.Printf("[!] %s", note)
	}
	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Printf("[!] %s", w)
	}
	if err != nil {
		log.Fatalf("[-] Некорректный конфиг: %v", err)
	}

	printSummary(cfg)

	if *printPtr {
		data, err := cfg.Marshal()
		if err != nil {
			log.Fatalf("[-] Ошибка сериализации: %v", err)
		}
		fmt.Print(string(data))
	}

	// Создаем директории для выходных файлов, если их нет
	if err := system.EnsureDirs(parentDirs(*savePtr, *previewPtr, *qrPtr)...); err != nil {
		log.Fatalf("[-] Ошибка создания директорий: %v", err)
	}

	if *savePtr != "" {
		if err := cfg.Save(*savePtr); err != nil {
			log.Fatalf("[-] Ошибка сохранения конфига: %v", err)
		}
		fmt.Printf("[*] Конфиг сохранен: %s\n", *savePtr)
	}

	var jobs []preview.Job
	if *previewPtr != "" {
		jobs = append(jobs, preview.GridJob(*previewPtr, cfg.ROI, *cellPtr))
	}
	if *qrPtr != "" {
		jobs = append(jobs, preview.QRJob(*qrPtr, cfg, *qrSizePtr))
	}
	if len(jobs) > 0 {
		if err := preview.WriteAll(context.Background(), jobs, *workersPtr); err != nil {
			log.Fatalf("[-] Ошибка рендера: %v", err)
		}
		for _, j := range jobs {
			fmt.Printf("[>] Ready: %s\n", j.Path)
		}
	}

	fmt.Printf("[+++] Успех! ROI: %s\n", cfg.ROI)
}

// applyOverride передает значение флага в сеттер, если флаг задан
func applyOverride(name string, val int, set func(uint8)) {
	if val < 0 {
		return
	}
	if val > 255 {
		log.Fatalf("[-] Ошибка: -%s=%d не помещается в байт", name, val)
	}
	set(uint8(val))
}

func parentDirs(paths ...string) []string {
	var dirs []string
	for _, p := range paths {
		if p != "" {
			dirs = append(dirs, filepath.Dir(p))
		}
	}
	return dirs
}

func printSummary(cfg *config.Config) {
	b := cfg.ROI.Bytes()
	col, row := roi.ZonePosition(cfg.ROI.Center)

	fmt.Println("--- [VL53L1X] ---")
	fmt.Printf("[*] I2C: 0x%02X @ %dkHz | Таймаут: %s\n", cfg.Address, cfg.Frequency/1000, cfg.Timeout)
	fmt.Printf("[*] Режим: %s\n", cfg.Calibration.Ranging)
	if cfg.Calibration.Offset != nil {
		fmt.Printf("[*] Смещение: %s\n", cfg.Calibration.Offset)
	}
	if cfg.Calibration.Crosstalk != nil {
		fmt.Printf("[*] Crosstalk: %dcps\n", *cfg.Calibration.Crosstalk)
	}
	fmt.Printf("[*] ROI: %s | центр в зоне (%d,%d) | зоны %v\n", cfg.ROI, col, row, cfg.ROI.Bounds())
	fmt.Printf("[*] Байты драйвера: % X\n", b[:])
	fmt.Println("-----------------")
}
