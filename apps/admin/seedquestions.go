package main

// seedQuestions loads the default checklist catalog. No-op if any question
// already exists.
func (cli *commandLine) seedQuestions() error {
	return cli.questionSvc.Seed()
}
