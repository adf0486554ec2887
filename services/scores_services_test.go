package services_test

import (
	"errors"
	"testing"
	"time"

	"seenaf/models"
	"seenaf/services"
	"seenaf/testutil"
)

func TestRecomputeScoreMatchesIncrementalPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	first := testutil.CreateChallenge(t, db, "first", 100, "SEENAF{one}", true)
	second := testutil.CreateChallenge(t, db, "second", 250, "SEENAF{two}", true)
	actor := actorFor(user, models.RolePlayer)

	if _, err := services.SubmitFlag(actor, user.ID, first.ID, "SEENAF{one}"); err != nil {
		t.Fatal(err)
	}
	if _, err := services.SubmitFlag(actor, user.ID, second.ID, "SEENAF{two}"); err != nil {
		t.Fatal(err)
	}

	var incremental models.User
	db.First(&incremental, "id = ?", user.ID)

	derived, err := services.RecomputeScore(user.ID)
	if err != nil {
		t.Fatalf("RecomputeScore returned error: %v", err)
	}

	if derived != incremental.TotalScore || derived != 350 {
		t.Errorf("derived score %d, incremental score %d, want both 350", derived, incremental.TotalScore)
	}
}

func TestRecomputeScoreIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{flag}", true)
	testutil.CreateSubmission(t, db, user.ID, challenge.ID, true, time.Now().UTC())

	firstRun, err := services.RecomputeScore(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	secondRun, err := services.RecomputeScore(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if firstRun != secondRun || firstRun != 100 {
		t.Errorf("recompute not idempotent: %d then %d, want 100 both times", firstRun, secondRun)
	}
}

func TestRecomputeScoreIgnoresDeletedChallenges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	kept := testutil.CreateChallenge(t, db, "kept", 100, "SEENAF{one}", true)
	doomed := testutil.CreateChallenge(t, db, "doomed", 400, "SEENAF{two}", true)

	now := time.Now().UTC()
	testutil.CreateSubmission(t, db, user.ID, kept.ID, true, now)
	testutil.CreateSubmission(t, db, user.ID, doomed.ID, true, now)

	if err := db.Delete(&doomed).Error; err != nil {
		t.Fatal(err)
	}

	score, err := services.RecomputeScore(user.ID)
	if err != nil {
		t.Fatalf("RecomputeScore returned error: %v", err)
	}
	if score != 100 {
		t.Errorf("score = %d, want 100: deleted challenge still contributes points", score)
	}
}

func TestRecomputeScoreUnknownUser(t *testing.T) {
	testutil.SetupTestDB(t)

	if _, err := services.RecomputeScore("00000000-0000-0000-0000-000000000000"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestOverrideScore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, "root", models.RoleAdmin)
	player := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	challenge := testutil.CreateChallenge(t, db, "warmup", 100, "SEENAF{flag}", true)
	testutil.CreateSubmission(t, db, player.ID, challenge.ID, true, time.Now().UTC())

	if err := services.OverrideScore(actorFor(player, models.RolePlayer), player.ID, 500); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("player overriding a score: error = %v, want ErrForbidden", err)
	}

	if err := services.OverrideScore(actorFor(admin, models.RoleAdmin), player.ID, -5); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("negative override: error = %v, want ErrInvalidInput", err)
	}

	if err := services.OverrideScore(actorFor(admin, models.RoleAdmin), player.ID, 500); err != nil {
		t.Fatalf("OverrideScore returned error: %v", err)
	}

	var user models.User
	db.First(&user, "id = ?", player.ID)
	if user.TotalScore != 500 {
		t.Errorf("total score = %d, want 500", user.TotalScore)
	}

	var entries int64
	db.Model(&models.AuditEntry{}).Where("action = ?", models.AuditScoreOverride).Count(&entries)
	if entries != 1 {
		t.Errorf("audit entries for override = %d, want 1", entries)
	}

	// Recomputation restores the derived value
	score, err := services.RecomputeScore(player.ID)
	if err != nil {
		t.Fatal(err)
	}
	if score != 100 {
		t.Errorf("recomputed score = %d, want 100", score)
	}
}

func TestSolvedChallengeIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "alice", models.RolePlayer)
	solved := testutil.CreateChallenge(t, db, "solved", 100, "SEENAF{one}", true)
	attempted := testutil.CreateChallenge(t, db, "attempted", 100, "SEENAF{two}", true)

	now := time.Now().UTC()
	testutil.CreateSubmission(t, db, user.ID, solved.ID, true, now)
	testutil.CreateSubmission(t, db, user.ID, attempted.ID, false, now)

	ids, err := services.SolvedChallengeIDs(user.ID)
	if err != nil {
		t.Fatalf("SolvedChallengeIDs returned error: %v", err)
	}
	if len(ids) != 1 || ids[0] != solved.ID {
		t.Errorf("solved ids = %v, want [%s]", ids, solved.ID)
	}
}
