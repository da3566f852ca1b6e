package mutation

import (
	"testing"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func sharedStudy(t *testing.T, fx *gatewayFixture) string {
	fx.as(t, testutil.Sarah)
	require.NoError(t, fx.gateway.AddBibleStudy(fx.ctx, "Romans", "Twelve weeks in Romans"))
	return store.Rows[entity.BibleStudy](fx.store, entity.TableBibleStudies)[0].ID
}

func Test_AddBibleStudy_LeadersOnly(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)

	err := fx.gateway.AddBibleStudy(fx.ctx, "Romans", "Twelve weeks in Romans")
	require.Error(t, err)
	require.True(t, errorx.IsCode(err, errorx.PermissionDenied))
	require.Empty(t, fx.remote.Rows(entity.TableBibleStudies))
}

func Test_EnrollStudy_Idempotent(t *testing.T) {
	fx := newGatewayFixture(t, testutil.Sarah)
	studyID := sharedStudy(t, fx)

	fx.as(t, testutil.John)
	require.NoError(t, fx.gateway.EnrollStudy(fx.ctx, studyID))
	require.NoError(t, fx.gateway.EnrollStudy(fx.ctx, studyID))
	require.Len(t, fx.remote.Rows(entity.TableStudyEnrollments), 1)

	require.NoError(t, fx.gateway.UnenrollStudy(fx.ctx, studyID))
	require.Empty(t, fx.remote.Rows(entity.TableStudyEnrollments))

	// Leaving a study you are not in is a quiet no-op.
	require.NoError(t, fx.gateway.UnenrollStudy(fx.ctx, studyID))
}

func Test_CompleteStudyDay_UpsertsSingleRow(t *testing.T) {
	fx := newGatewayFixture(t, testutil.Sarah)
	studyID := sharedStudy(t, fx)

	fx.as(t, testutil.John)
	require.NoError(t, fx.gateway.CompleteStudyDay(fx.ctx, studyID, 1))
	require.NoError(t, fx.gateway.CompleteStudyDay(fx.ctx, studyID, 1))

	progress := fx.remote.Rows(entity.TableStudyProgress)
	require.Len(t, progress, 1)
	require.Len(t, store.Rows[entity.StudyProgress](fx.store, entity.TableStudyProgress), 1)

	require.NoError(t, fx.gateway.CompleteStudyDay(fx.ctx, studyID, 2))
	require.Len(t, fx.remote.Rows(entity.TableStudyProgress), 2)
}

func Test_CompleteStudyDay_AwardsScholarOnce(t *testing.T) {
	fx := newGatewayFixture(t, testutil.Sarah)
	studyID := sharedStudy(t, fx)

	fx.as(t, testutil.John)
	require.NoError(t, fx.gateway.CompleteStudyDay(fx.ctx, studyID, 1))

	awards := fx.remote.Rows(entity.TableUserBadges)
	require.Len(t, awards, 1)
	require.Equal(t, testutil.BadgeScholar, awards[0]["badge_id"])

	// Completing the same day again, or another day, never re-awards.
	require.NoError(t, fx.gateway.CompleteStudyDay(fx.ctx, studyID, 1))
	require.NoError(t, fx.gateway.CompleteStudyDay(fx.ctx, studyID, 2))
	require.Len(t, fx.remote.Rows(entity.TableUserBadges), 1)
}
