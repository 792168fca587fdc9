package scoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/cabe-arena/arena/internal/domain/model"
	scoring "github.com/cabe-arena/arena/internal/domain/scoring"
	"github.com/cabe-arena/arena/internal/domain/skill"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExponentialScale(t *testing.T) {
	Convey("Given the exponential scaling curve", t, func() {
		Convey("When evaluated at the anchor levels", func() {
			Convey("Then level 0 maps to 0 and level 1 maps to 1", func() {
				So(scoring.ExponentialScale(0, scoring.DefaultAlpha), ShouldEqual, 0)
				So(scoring.ExponentialScale(1, scoring.DefaultAlpha), ShouldAlmostEqual, 1, 1e-9)
			})

			Convey("And the anchors hold for any steepness", func() {
				for _, alpha := range []float64{0.5, 1.0, 3.0, 5.5, 10.0} {
					So(scoring.ExponentialScale(0, alpha), ShouldEqual, 0)
					So(scoring.ExponentialScale(1, alpha), ShouldAlmostEqual, 1, 1e-9)
				}
			})
		})

		Convey("When evaluated across increasing levels", func() {
			Convey("Then the multiplier is strictly increasing", func() {
				prev := scoring.ExponentialScale(0, scoring.DefaultAlpha)
				for level := 1; level <= 5; level++ {
					cur := scoring.ExponentialScale(level, scoring.DefaultAlpha)
					So(cur, ShouldBeGreaterThan, prev)
					prev = cur
				}
			})

			Convey("And growth beyond level 1 is super-linear", func() {
				So(scoring.ExponentialScale(2, scoring.DefaultAlpha), ShouldBeGreaterThan, 2)
			})
		})

		Convey("When the steepness increases", func() {
			Convey("Then higher levels are amplified harder", func() {
				So(scoring.ExponentialScale(2, 5.5), ShouldBeGreaterThan, scoring.ExponentialScale(2, 1.0))
			})
		})
	})
}

func TestRankForPoints(t *testing.T) {
	Convey("Given the rank tier boundaries", t, func() {
		Convey("When points sit just below a boundary", func() {
			Convey("Then the lower tier is kept", func() {
				rank, _ := scoring.RankForPoints(999.999)
				So(rank, ShouldEqual, scoring.RankBronze)

				rank, _ = scoring.RankForPoints(4999)
				So(rank, ShouldEqual, scoring.RankSilver)

				rank, _ = scoring.RankForPoints(14999)
				So(rank, ShouldEqual, scoring.RankGold)

				rank, _ = scoring.RankForPoints(49999)
				So(rank, ShouldEqual, scoring.RankPlatinum)
			})
		})

		Convey("When points land exactly on a boundary", func() {
			Convey("Then the upper tier is entered with zero progress", func() {
				rank, progress := scoring.RankForPoints(1000)
				So(rank, ShouldEqual, scoring.RankSilver)
				So(progress, ShouldEqual, 0)

				rank, progress = scoring.RankForPoints(5000)
				So(rank, ShouldEqual, scoring.RankGold)
				So(progress, ShouldEqual, 0)

				rank, progress = scoring.RankForPoints(15000)
				So(rank, ShouldEqual, scoring.RankPlatinum)
				So(progress, ShouldEqual, 0)

				rank, progress = scoring.RankForPoints(50000)
				So(rank, ShouldEqual, scoring.RankDiamond)
				So(progress, ShouldEqual, 100)
			})
		})

		Convey("When points are zero", func() {
			rank, progress := scoring.RankForPoints(0)

			Convey("Then the user is Bronze with zero progress", func() {
				So(rank, ShouldEqual, scoring.RankBronze)
				So(progress, ShouldEqual, 0)
			})
		})

		Convey("When points are halfway through a tier", func() {
			_, progress := scoring.RankForPoints(500)

			Convey("Then progress reports 50", func() {
				So(progress, ShouldAlmostEqual, 50, 1e-9)
			})
		})

		Convey("When points are arbitrary", func() {
			Convey("Then progress always stays within [0, 100]", func() {
				for _, pts := range []float64{0, 1, 999, 1000, 4999.5, 12345, 49999.99, 50000, 1e9} {
					_, progress := scoring.RankForPoints(pts)
					So(progress, ShouldBeGreaterThanOrEqualTo, 0)
					So(progress, ShouldBeLessThanOrEqualTo, 100)
				}
			})
		})
	})
}

func TestNextRank(t *testing.T) {
	Convey("Given the rank ladder", t, func() {
		Convey("When asking for the tier above each rank", func() {
			Convey("Then each rank promotes to its successor", func() {
				So(scoring.NextRank(scoring.RankBronze), ShouldEqual, scoring.RankSilver)
				So(scoring.NextRank(scoring.RankSilver), ShouldEqual, scoring.RankGold)
				So(scoring.NextRank(scoring.RankGold), ShouldEqual, scoring.RankPlatinum)
				So(scoring.NextRank(scoring.RankPlatinum), ShouldEqual, scoring.RankDiamond)
			})

			Convey("And Diamond is terminal", func() {
				So(scoring.NextRank(scoring.RankDiamond), ShouldEqual, scoring.RankDiamond)
			})
		})
	})
}

func TestEngine_Evaluate(t *testing.T) {
	Convey("Given a points engine with default configuration", t, func() {
		engine := scoring.NewEngine()
		ctx := context.Background()
		now := time.Now().UTC()

		Convey("When evaluating a first-ever submission", func() {
			sub := model.Submission{
				ID:            "sub-1",
				UserID:        "user-1",
				Skill:         skill.FullstackDev,
				TaskType:      model.TaskPractice,
				BasePoints:    50,
				MaxPoints:     200,
				ProofStrength: model.ProofSolid,
				ProofText:     "implemented and deployed the service",
				SubmittedAt:   now,
			}

			result, err := engine.Evaluate(ctx, sub, nil)

			Convey("Then the bonus lets a new user beat the raw base points", func() {
				So(err, ShouldBeNil)
				// avg 0.25 * headroom 150 + proof 25 = 62.5, rounded up.
				So(result.PointsAwarded, ShouldEqual, 63)
				So(result.BonusPoints, ShouldEqual, 63)
				So(result.PointsAwarded, ShouldBeGreaterThan, sub.BasePoints)
			})

			Convey("And the user starts out Bronze", func() {
				So(err, ShouldBeNil)
				So(result.TotalPoints, ShouldEqual, 63)
				So(result.NewRank, ShouldEqual, scoring.RankBronze)
				So(result.RankProgress, ShouldBeGreaterThan, 0)
				So(result.RankProgress, ShouldBeLessThan, 100)
			})
		})

		Convey("When evaluating against a level-1 history", func() {
			history := make([]model.HistoryEntry, 6)
			for i := range history {
				history[i] = model.HistoryEntry{
					SubmissionID:  "past",
					Skill:         skill.FullstackDev,
					BasePoints:    200,
					PointsAwarded: 200,
					Status:        model.StatusApproved,
					SubmittedAt:   now.Add(-time.Duration(i+1) * time.Hour),
				}
			}

			sub := model.Submission{
				ID:            "sub-2",
				UserID:        "user-1",
				Skill:         skill.FullstackDev,
				TaskType:      model.TaskPractice,
				BasePoints:    100,
				MaxPoints:     150,
				ProofStrength: model.ProofStrong,
				SubmittedAt:   now,
			}

			result, err := engine.Evaluate(ctx, sub, history)

			Convey("Then the base points scale through the level curve", func() {
				So(err, ShouldBeNil)
				// level 1 -> scale 1.0, so scaled base is the full 100;
				// counts {7,0,0,0} -> avg 1.75 * headroom 50 + proof 50 = 137.5.
				So(result.PointsAwarded, ShouldEqual, 238)
			})

			Convey("And the running total crosses into Silver", func() {
				So(err, ShouldBeNil)
				So(result.TotalPoints, ShouldEqual, 1438)
				So(result.NewRank, ShouldEqual, scoring.RankSilver)
			})
		})

		Convey("When the raw bonus reaches the cap", func() {
			sub := model.Submission{
				ID:            "sub-3",
				UserID:        "user-2",
				Skill:         skill.AIML,
				TaskType:      model.TaskMiniProject,
				BasePoints:    10,
				MaxPoints:     5000,
				ProofStrength: model.ProofStrong,
				SubmittedAt:   now,
			}

			result, err := engine.Evaluate(ctx, sub, nil)

			Convey("Then the bonus lands at exactly cap times boost", func() {
				So(err, ShouldBeNil)
				// raw 0.25*4990+50 = 1297.5 clamps to 1000, then boosts to 1500.
				So(result.BonusPoints, ShouldEqual, 1500)
				So(result.PointsAwarded, ShouldEqual, 1500)
			})
		})

		Convey("When stronger proof backs the same submission", func() {
			base := model.Submission{
				ID:          "sub-4",
				UserID:      "user-3",
				Skill:       skill.DataAnalytics,
				TaskType:    model.TaskPractice,
				BasePoints:  50,
				MaxPoints:   200,
				SubmittedAt: now,
			}

			weak := base
			weak.ProofStrength = model.ProofBasic
			strong := base
			strong.ProofStrength = model.ProofStrong

			weakResult, weakErr := engine.Evaluate(ctx, weak, nil)
			strongResult, strongErr := engine.Evaluate(ctx, strong, nil)

			Convey("Then stronger proof strictly increases the award", func() {
				So(weakErr, ShouldBeNil)
				So(strongErr, ShouldBeNil)
				So(strongResult.PointsAwarded, ShouldBeGreaterThan, weakResult.PointsAwarded)
			})
		})

		Convey("When the skill category is unknown", func() {
			sub := model.Submission{
				ID:            "sub-5",
				UserID:        "user-4",
				Skill:         skill.Category("underwater-basket-weaving"),
				TaskType:      model.TaskPractice,
				BasePoints:    50,
				MaxPoints:     100,
				ProofStrength: model.ProofBasic,
				SubmittedAt:   now,
			}

			_, err := engine.Evaluate(ctx, sub, nil)

			Convey("Then evaluation fails with the sentinel error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, skill.ErrUnknownCategory.Error())
			})
		})

		Convey("When the submission carries zero points and proof", func() {
			sub := model.Submission{
				ID:          "sub-6",
				UserID:      "user-5",
				Skill:       skill.CloudDevOps,
				TaskType:    model.TaskPractice,
				SubmittedAt: now,
			}

			result, err := engine.Evaluate(ctx, sub, nil)

			Convey("Then the award never goes negative", func() {
				So(err, ShouldBeNil)
				So(result.PointsAwarded, ShouldBeGreaterThanOrEqualTo, 0)
				So(result.BonusPoints, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})
	})

	Convey("Given a points engine with custom options", t, func() {
		ctx := context.Background()
		now := time.Now().UTC()

		Convey("When the over-cap boost is raised", func() {
			engine := scoring.NewEngine(
				scoring.WithBonusCap(100),
				scoring.WithOverCapBoost(2.0),
				scoring.WithSkillTable(skill.Table{
					skill.FullstackDev: {BaseMultiplier: 1.0, BonusMultiplier: 1.0},
				}),
			)

			sub := model.Submission{
				ID:            "sub-7",
				UserID:        "user-6",
				Skill:         skill.FullstackDev,
				TaskType:      model.TaskMiniProject,
				BasePoints:    10,
				MaxPoints:     2000,
				ProofStrength: model.ProofStrong,
				SubmittedAt:   now,
			}

			result, err := engine.Evaluate(ctx, sub, nil)

			Convey("Then the configured cap and boost apply", func() {
				So(err, ShouldBeNil)
				// Single-category table: avg 1.0*1990+50 blows past cap 100,
				// landing at 100*2.0.
				So(result.BonusPoints, ShouldEqual, 200)
			})
		})

		Convey("When the cap and boost are configured over the default table", func() {
			engine := scoring.NewEngine(
				scoring.WithBonusCap(100),
				scoring.WithOverCapBoost(2.0),
			)

			sub := model.Submission{
				ID:            "sub-7b",
				UserID:        "user-6b",
				Skill:         skill.AIML,
				TaskType:      model.TaskMiniProject,
				BasePoints:    10,
				MaxPoints:     2000,
				ProofStrength: model.ProofStrong,
				SubmittedAt:   now,
			}

			result, err := engine.Evaluate(ctx, sub, nil)

			Convey("Then the configured bounds beat the per-category ones", func() {
				So(err, ShouldBeNil)
				// raw 0.25*1990+50 = 547.5 clamps to the configured 100 and
				// boosts to 200; the table's built-in 1000/1.5 must not win.
				So(result.BonusPoints, ShouldEqual, 200)
				So(result.PointsAwarded, ShouldEqual, 200)
			})
		})

		Convey("When the scaling steepness is flattened", func() {
			steep := scoring.NewEngine(scoring.WithAlpha(5.5))
			flat := scoring.NewEngine(scoring.WithAlpha(0.5))

			history := make([]model.HistoryEntry, 20)
			for i := range history {
				history[i] = model.HistoryEntry{
					Skill:         skill.FullstackDev,
					BasePoints:    200,
					PointsAwarded: 200,
					Status:        model.StatusApproved,
					SubmittedAt:   now.Add(-time.Duration(i+1) * time.Hour),
				}
			}

			sub := model.Submission{
				ID:            "sub-8",
				UserID:        "user-7",
				Skill:         skill.FullstackDev,
				TaskType:      model.TaskPractice,
				BasePoints:    100,
				MaxPoints:     120,
				ProofStrength: model.ProofBasic,
				SubmittedAt:   now,
			}

			steepResult, steepErr := steep.Evaluate(ctx, sub, history)
			flatResult, flatErr := flat.Evaluate(ctx, sub, history)

			Convey("Then the steeper curve awards more at high levels", func() {
				So(steepErr, ShouldBeNil)
				So(flatErr, ShouldBeNil)
				So(steepResult.PointsAwarded, ShouldBeGreaterThan, flatResult.PointsAwarded)
			})
		})
	})
}
