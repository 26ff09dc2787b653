package rewrite

import "testing"

type stageCase struct {
	name string
	in   string
	want string
}

func runStage(t *testing.T, stage func(string, *Env) string, env *Env, cases []stageCase) {
	t.Helper()
	if env == nil {
		env = DefaultEnv()
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stage(tc.in, env)
			if got != tc.want {
				t.Fatalf("mismatch for %q:\nwant %q\ngot  %q", tc.in, tc.want, got)
			}
		})
	}
}
