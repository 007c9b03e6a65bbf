package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/felthound/felthound/internal/adapters/repository"
	"github.com/felthound/felthound/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func v(id string, score float64) verdict.Verdict {
	return verdict.Verdict{PlayerID: id, BotScore: score}
}

func TestShardedIndex_UpsertGet(t *testing.T) {
	ctx := context.Background()

	Convey("Given an index with a few verdicts", t, func() {
		idx := repository.NewShardedIndex()
		So(idx.Upsert(ctx, v("alice", 72)), ShouldBeNil)
		So(idx.Upsert(ctx, v("bob", 15)), ShouldBeNil)

		Convey("When fetching a stored player", func() {
			got, err := idx.Get(ctx, "alice")

			Convey("Then the verdict comes back", func() {
				So(err, ShouldBeNil)
				So(got.BotScore, ShouldEqual, 72)
			})
		})

		Convey("When fetching an unevaluated player", func() {
			_, err := idx.Get(ctx, "carol")

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When upserting a newer verdict for the same player", func() {
			So(idx.Upsert(ctx, v("alice", 30)), ShouldBeNil)

			Convey("Then the latest verdict replaces the old one", func() {
				got, err := idx.Get(ctx, "alice")
				So(err, ShouldBeNil)
				So(got.BotScore, ShouldEqual, 30)
				So(idx.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestShardedIndex_TopN(t *testing.T) {
	ctx := context.Background()

	Convey("Given an index over a scored population", t, func() {
		idx := repository.NewShardedIndex(repository.WithShardCount(4))
		scores := map[string]float64{
			"dave": 88, "alice": 45, "bob": 88, "carol": 12, "erin": 63,
		}
		for id, score := range scores {
			So(idx.Upsert(ctx, v(id, score)), ShouldBeNil)
		}

		Convey("When asking for the top three", func() {
			top, err := idx.TopN(ctx, 3)

			Convey("Then they come back most suspicious first, ties on ID", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 3)
				So(top[0].PlayerID, ShouldEqual, "bob")
				So(top[1].PlayerID, ShouldEqual, "dave")
				So(top[2].PlayerID, ShouldEqual, "erin")
			})
		})

		Convey("When asking for more than exist", func() {
			top, err := idx.TopN(ctx, 50)

			Convey("Then everyone comes back", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 5)
			})
		})

		Convey("When asking for a non-positive limit", func() {
			_, err := idx.TopN(ctx, 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(err, ShouldWrap, repository.ErrInvalidLimit)
			})
		})
	})
}

func TestShardedIndex_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()

	Convey("Given concurrent writers across shards", t, func() {
		idx := repository.NewShardedIndex()

		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					id := fmt.Sprintf("p-%d-%03d", w, i)
					_ = idx.Upsert(ctx, v(id, float64(i)))
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every write lands", func() {
			So(idx.Count(ctx), ShouldEqual, 800)
		})
	})
}
