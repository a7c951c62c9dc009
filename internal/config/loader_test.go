package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"scenic-score/internal/config"
)

var configEnvVars = []string{
	"SCENIC_CONFIG",
	"SCENIC_DATA_DIR",
	"SCENIC_EXTENSIONS",
	"SCENIC_ENCODINGS",
	"SCENIC_ALLOW_ORIGINS",
	"SCENIC_TOP_N",
	"SCENIC_SCORE_TOLERANCE",
	"SCENIC_PORT",
	"SCENIC_LOG_LEVEL",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "scenic.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConfigLoad(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When nothing is set", func() {
			cfg, err := config.Load()

			convey.Convey("Then defaults are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.Extensions, convey.ShouldResemble, []string{".csv"})
				convey.So(cfg.Encodings, convey.ShouldResemble, []string{"utf-8", "gbk", "gb18030", "gb2312"})
				convey.So(cfg.DefaultScoreColumn, convey.ShouldEqual, "评分")
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
				convey.So(cfg.ScoreTolerance, convey.ShouldEqual, 0)
				convey.So(cfg.ProbeBytes, convey.ShouldEqual, 200)
				convey.So(cfg.Addr(), convey.ShouldEqual, "127.0.0.1:8082")
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("SCENIC_DATA_DIR", "/srv/cities")
			_ = os.Setenv("SCENIC_EXTENSIONS", ".csv,.xlsx")
			_ = os.Setenv("SCENIC_TOP_N", "3")
			_ = os.Setenv("SCENIC_SCORE_TOLERANCE", "0.001")

			cfg, err := config.Load()

			convey.Convey("Then they override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/cities")
				convey.So(cfg.Extensions, convey.ShouldResemble, []string{".csv", ".xlsx"})
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.ScoreTolerance, convey.ShouldAlmostEqual, 0.001)
			})
		})

		convey.Convey("When list variables carry several comma-separated items", func() {
			_ = os.Setenv("SCENIC_ENCODINGS", "utf-8, gbk,,big5")
			_ = os.Setenv("SCENIC_ALLOW_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.Load()

			convey.Convey("Then each item becomes its own element", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Encodings, convey.ShouldResemble, []string{"utf-8", "gbk", "big5"})
				convey.So(cfg.AllowOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When a list variable holds one item", func() {
			_ = os.Setenv("SCENIC_EXTENSIONS", ".xlsx")

			cfg, err := config.Load()

			convey.Convey("Then it is a one-element list", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Extensions, convey.ShouldResemble, []string{".xlsx"})
			})
		})

		convey.Convey("When a YAML file and env are both given", func() {
			path := writeYAML(t, `
data_dir: ./yaml-data
top_n: 5
encodings: [gbk, utf-8]
port: 9000
`)
			_ = os.Setenv("SCENIC_CONFIG", path)
			_ = os.Setenv("SCENIC_PORT", "9100")

			cfg, err := config.Load()

			convey.Convey("Then env wins over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "./yaml-data")
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.Encodings, convey.ShouldResemble, []string{"gbk", "utf-8"})
				convey.So(cfg.Port, convey.ShouldEqual, 9100)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("SCENIC_CONFIG", "/non/existent/scenic.yaml")
			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("SCENIC_TOP_N", "0")
			_, err := config.Load()

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "top_n")
			})
		})

		convey.Convey("When a number does not parse", func() {
			_ = os.Setenv("SCENIC_TOP_N", "many")
			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
