package skill_test

import (
	"testing"

	"github.com/cabe-arena/arena/internal/domain/skill"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCategories(t *testing.T) {
	Convey("Given the category catalogue", t, func() {
		Convey("When listing all categories", func() {
			cats := skill.Categories()

			Convey("Then the four slugs appear in canonical order", func() {
				So(cats, ShouldResemble, []skill.Category{
					skill.FullstackDev,
					skill.CloudDevOps,
					skill.DataAnalytics,
					skill.AIML,
				})
			})
		})

		Convey("When resolving display names", func() {
			Convey("Then each slug maps to its published name", func() {
				So(skill.FullstackDev.DisplayName(), ShouldEqual, "Full-Stack Software Development")
				So(skill.CloudDevOps.DisplayName(), ShouldEqual, "Cloud Computing & DevOps")
				So(skill.DataAnalytics.DisplayName(), ShouldEqual, "Data Science & Analytics")
				So(skill.AIML.DisplayName(), ShouldEqual, "AI / Machine Learning")
			})

			Convey("And an unknown category echoes its slug", func() {
				So(skill.Category("basket-weaving").DisplayName(), ShouldEqual, "basket-weaving")
			})
		})

		Convey("When validating categories", func() {
			Convey("Then known slugs are valid", func() {
				for _, c := range skill.Categories() {
					So(c.Valid(), ShouldBeTrue)
				}
			})

			Convey("And unknown or empty slugs are not", func() {
				So(skill.Category("").Valid(), ShouldBeFalse)
				So(skill.Category("Fullstack-Dev").Valid(), ShouldBeFalse)
			})
		})

		Convey("When looking up canonical positions", func() {
			Convey("Then positions follow the catalogue order", func() {
				So(skill.Index(skill.FullstackDev), ShouldEqual, 0)
				So(skill.Index(skill.CloudDevOps), ShouldEqual, 1)
				So(skill.Index(skill.DataAnalytics), ShouldEqual, 2)
				So(skill.Index(skill.AIML), ShouldEqual, 3)
			})

			Convey("And unknown categories report -1", func() {
				So(skill.Index(skill.Category("nope")), ShouldEqual, -1)
			})
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given the default parameter table", t, func() {
		table := skill.DefaultTable()

		Convey("When inspecting every category", func() {
			Convey("Then all four categories carry the default parameters", func() {
				for _, c := range skill.Categories() {
					cfg, ok := table.Lookup(c)
					So(ok, ShouldBeTrue)
					So(cfg.BaseMultiplier, ShouldEqual, 1.0)
					So(cfg.BonusMultiplier, ShouldEqual, 1.0)
					So(cfg.Cap, ShouldEqual, 1000)
					So(cfg.OverCapBoost, ShouldEqual, 1.5)
				}
			})
		})

		Convey("When looking up an unknown category", func() {
			_, ok := table.Lookup(skill.Category("nope"))

			Convey("Then the lookup misses", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When extracting bonus weights", func() {
			weights := table.Weights()

			Convey("Then one weight per category in canonical order", func() {
				So(weights, ShouldResemble, []float64{1.0, 1.0, 1.0, 1.0})
			})
		})
	})

	Convey("Given a partial parameter table", t, func() {
		table := skill.Table{
			skill.FullstackDev: {BaseMultiplier: 1.2, BonusMultiplier: 0.8},
		}

		Convey("When extracting bonus weights", func() {
			weights := table.Weights()

			Convey("Then missing categories weigh zero", func() {
				So(weights, ShouldResemble, []float64{0.8, 0, 0, 0})
			})
		})
	})
}
